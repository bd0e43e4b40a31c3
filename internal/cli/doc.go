// Package cli реализует инструмент командной строки Mergington.
//
// # Обзор
//
// CLI — клиентская утилита для работы со списками занятий через HTTP API.
// Не импортирует внутренние пакеты системы.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Mergington API. Ответ GET /activities — объект
// имя → детали; клиент читает его потоково и сохраняет порядок ключей.
// Ошибки сервера ({"detail", "code"}) возвращаются как *APIError.
//
//	client := cli.NewClient("http://localhost:8080")
//	activities, err := client.ListActivities()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: mergington activity list --json | jq .
//
// ## Commands
//
//   - activity: list, show, signup, remove
//
// NewActivityCmd принимает clientFn и outputFn — замыкания для ленивого
// создания Client и Output после парсинга PersistentFlags.
package cli
