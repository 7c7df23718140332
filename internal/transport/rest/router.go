package rest

import "net/http"

// NewRouter wires every REST handler onto a ServeMux. Auth and other
// middleware wrap the returned mux, not individual routes.
func NewRouter(
	health *HealthHandler,
	auth *AuthHandler,
	cards *CardsHandler,
	study *StudyHandler,
	teacher *TeacherHandler,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	mux.HandleFunc("POST /api/login", auth.Login)

	mux.HandleFunc("GET /api/cards", cards.List)
	mux.HandleFunc("POST /api/cards", cards.Add)
	mux.HandleFunc("PATCH /api/cards/{id}", cards.Update)
	mux.HandleFunc("POST /api/cards/import", cards.Import)
	mux.HandleFunc("GET /api/cards/export", cards.Export)

	mux.HandleFunc("POST /api/study/start", study.StartSession)
	mux.HandleFunc("GET /api/study/session", study.Session)
	mux.HandleFunc("DELETE /api/study/session", study.EndSession)
	mux.HandleFunc("POST /api/study/reveal", study.Reveal)
	mux.HandleFunc("POST /api/study/grade", study.Grade)
	mux.HandleFunc("GET /api/study/summary", study.Summary)
	mux.HandleFunc("POST /api/decks/sync", study.SyncDecks)

	mux.HandleFunc("GET /api/teacher/overview", teacher.Overview)

	return mux
}
