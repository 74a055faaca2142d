package api

import (
	"github.com/gorilla/mux"

	"github.com/garnizeh/neighborly/internal/board"
	"github.com/garnizeh/neighborly/internal/config"
	"github.com/garnizeh/neighborly/internal/store"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, b *board.Board, s *store.Store) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	sessionHandler := NewSessionHandler(b, cfg.JWTSecret, cfg.TokenDuration)
	postsHandler := NewPostsHandler(b)
	repliesHandler := NewRepliesHandler(b)
	lifecycleHandler := NewLifecycleHandler(b)
	chatHandler := NewChatHandler(b)
	activityHandler := NewActivityHandler(b)
	searchHandler := NewSavedSearchHandler(b)
	usersHandler := NewUsersHandler(b, s)
	previewHandler := NewPreviewHandler(b, cfg.BaseURL)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/session", sessionHandler.Create).Methods("POST")
	r.HandleFunc("/p/{id}", previewHandler.Post).Methods("GET")
	r.HandleFunc("/ref/{userID}", previewHandler.Referral).Methods("GET")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Session and neighbor directory
	apiV1.HandleFunc("/users", sessionHandler.Users).Methods("GET")
	apiV1.HandleFunc("/me", usersHandler.Me).Methods("GET")

	// Posts and feed
	apiV1.HandleFunc("/posts", postsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/feed", postsHandler.Feed).Methods("GET")
	apiV1.HandleFunc("/posts/{id}", postsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/posts/{id}", postsHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/posts/{id}/photo", postsHandler.AttachPhoto).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/photo/approve", postsHandler.ApprovePhoto).Methods("POST")

	// Replies and comments
	apiV1.HandleFunc("/posts/{id}/replies", repliesHandler.Submit).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/replies/{replyID}/comments", repliesHandler.Comment).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/replies/{replyID}/heart", repliesHandler.Heart).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/replies/{replyID}/helpful", repliesHandler.Helpful).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/replies/{replyID}/top-pick", repliesHandler.TopPick).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/replies/{replyID}/hide", repliesHandler.Hide).Methods("POST")

	// Help lifecycle
	apiV1.HandleFunc("/posts/{id}/helpers", lifecycleHandler.ChooseHelper).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/helpers", lifecycleHandler.UnchooseHelper).Methods("DELETE")
	apiV1.HandleFunc("/posts/{id}/stage", lifecycleHandler.AdvanceStage).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/confirm", lifecycleHandler.Confirm).Methods("POST")

	// Chat
	apiV1.HandleFunc("/chats", chatHandler.List).Methods("GET")
	apiV1.HandleFunc("/posts/{id}/chat/{otherID}", chatHandler.Messages).Methods("GET")
	apiV1.HandleFunc("/posts/{id}/chat/{otherID}", chatHandler.Send).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/chat/{otherID}/read", chatHandler.MarkRead).Methods("POST")
	apiV1.HandleFunc("/posts/{id}/chat/{otherID}/unread", chatHandler.Unread).Methods("GET")
	apiV1.HandleFunc("/posts/{id}/chat/{otherID}/stream", chatHandler.Stream).Methods("GET")

	// Activity feed
	apiV1.HandleFunc("/activity", activityHandler.List).Methods("GET")

	// Saved searches
	apiV1.HandleFunc("/searches", searchHandler.Save).Methods("POST")
	apiV1.HandleFunc("/searches", searchHandler.List).Methods("GET")
	apiV1.HandleFunc("/searches/{id}", searchHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/searches/{id}/seen", searchHandler.MarkSeen).Methods("POST")

	// Neighbor relationships and per-user state
	apiV1.HandleFunc("/follows", usersHandler.Follow).Methods("POST")
	apiV1.HandleFunc("/follows", usersHandler.Unfollow).Methods("DELETE")
	apiV1.HandleFunc("/blocks", usersHandler.Block).Methods("POST")
	apiV1.HandleFunc("/blocks", usersHandler.Unblock).Methods("DELETE")
	apiV1.HandleFunc("/home", usersHandler.SetHome).Methods("PUT")
	apiV1.HandleFunc("/checkin", usersHandler.CheckIn).Methods("POST")
	apiV1.HandleFunc("/availability", usersHandler.SetAvailability).Methods("PUT")
	apiV1.HandleFunc("/onboarding", usersHandler.Onboard).Methods("POST")
	apiV1.HandleFunc("/reports", usersHandler.Report).Methods("POST")
	apiV1.HandleFunc("/referrals/{userID}", usersHandler.ClaimReferral).Methods("POST")

	return r
}
