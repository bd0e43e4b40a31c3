// Package roster содержит операции над списками участников занятий.
//
// Service проверяет email, вызывает ActivityStore, пишет метрики и,
// если настроен publisher, публикует события participant.signed_up и
// participant.removed. Ошибки хранилища возвращаются как есть, чтобы
// HTTP слой мог сопоставить их со статусами.
package roster
