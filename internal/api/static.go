package api

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// EmbeddedStatic возвращает встроенные файлы страницы.
func EmbeddedStatic() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // каталог встроен при сборке
	}
	return sub
}

// Index перенаправляет на страницу со списком занятий.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/static/index.html", http.StatusTemporaryRedirect)
}

// StaticFiles отдаёт файлы страницы под префиксом /static/.
func (h *Handler) StaticFiles() http.Handler {
	return http.StripPrefix("/static/", http.FileServerFS(h.static))
}
