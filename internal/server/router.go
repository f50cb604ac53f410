package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
)

// Handler builds the routed, middleware-wrapped viewer handler.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	// Column names may contain slashes; match on the escaped path and unescape in handlers.
	router.UseEncodedPath()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such endpoint")
	})

	api := router.PathPrefix("/api").Subrouter()
	GET := api.Methods("GET", "HEAD").Subrouter()
	POST := api.Methods("POST").Subrouter()

	GET.HandleFunc("/dataset", s.DatasetInfo).Name("dataset")
	GET.HandleFunc("/columns/{name}/summary", s.ColumnSummary).Name("summary")
	GET.HandleFunc("/columns/{name}/plot.png", s.ColumnPlot).Name("plot")
	GET.HandleFunc("/columns/{name}/line.png", s.ColumnLine).Name("line")
	GET.HandleFunc("/compare", s.Compare).Name("compare")
	GET.HandleFunc("/sequence/{accession}", s.Sequence).Name("sequence")

	POST.HandleFunc("/open", s.OpenFile).Name("open")

	standard := alice.New(
		s.recoverer,
		s.requestLogger,
	)
	return standard.Then(router)
}
