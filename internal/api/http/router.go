package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"nkadime-backend/internal/security"
	"nkadime-backend/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Listing      *ListingHandler
	Rental       *RentalHandler
	Notification *NotificationHandler
	Community    *CommunityHandler
}

func NewHandlers(
	authService service.AuthService,
	userService service.UserService,
	listingService service.ListingService,
	rentalService service.RentalService,
	notificationService service.NotificationService,
	reviewService service.ReviewService,
	messageService service.ListingMessageService,
	favService service.FavoriteService,
) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(authService),
		User:         NewUserHandler(userService),
		Listing:      NewListingHandler(listingService),
		Rental:       NewRentalHandler(rentalService),
		Notification: NewNotificationHandler(notificationService),
		Community:    NewCommunityHandler(reviewService, messageService, favService),
	}
}

// NewRouter wires all routes under /api. Identity on protected routes comes
// from the bearer token, never from request bodies.
func NewRouter(h *Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/users/{id:[0-9]+}", h.User.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/listings", h.Listing.SearchListings).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id:[0-9]+}", h.Listing.GetListing).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id:[0-9]+}/quote", h.Listing.Quote).Methods(http.MethodGet)
	api.HandleFunc("/reviews/{listingId:[0-9]+}", h.Community.ListListingReviews).Methods(http.MethodGet)
	api.HandleFunc("/favorites/{userId:[0-9]+}", h.Community.ListFavorites).Methods(http.MethodGet)

	// Authenticated
	auth := api.NewRoute().Subrouter()
	auth.Use(authMiddleware(tokens))

	auth.HandleFunc("/users/{id:[0-9]+}", h.User.UpdateProfile).Methods(http.MethodPut)
	auth.HandleFunc("/listings", h.Listing.CreateListing).Methods(http.MethodPost)

	auth.HandleFunc("/rentals", h.Rental.CreateRental).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/history/{userId:[0-9]+}", h.Rental.GetHistory).Methods(http.MethodGet)
	auth.HandleFunc("/rentals/{id:[0-9]+}", h.Rental.GetRental).Methods(http.MethodGet)
	auth.HandleFunc("/rentals/{id:[0-9]+}/approve", h.Rental.Approve).Methods(http.MethodPatch)
	auth.HandleFunc("/rentals/{id:[0-9]+}/decline", h.Rental.Decline).Methods(http.MethodPatch)
	auth.HandleFunc("/rentals/{id:[0-9]+}/status-audit", h.Rental.UpdateStatusWithAudit).Methods(http.MethodPatch)
	auth.HandleFunc("/rentals/{id:[0-9]+}/message", h.Rental.AddMessage).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id:[0-9]+}/payment", h.Rental.AddPayment).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id:[0-9]+}/review", h.Rental.AddReview).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id:[0-9]+}/dispute", h.Rental.RaiseDispute).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id:[0-9]+}/dispute/resolve", h.Rental.ResolveDispute).Methods(http.MethodPost)
	auth.HandleFunc("/rentals/{id:[0-9]+}/export", h.Rental.Export).Methods(http.MethodGet)
	auth.HandleFunc("/disputes/open", h.Rental.ListOpenDisputes).Methods(http.MethodGet)

	auth.HandleFunc("/reviews", h.Community.AddListingReview).Methods(http.MethodPost)
	auth.HandleFunc("/listing-messages", h.Community.SendListingMessage).Methods(http.MethodPost)
	auth.HandleFunc("/listing-messages/{listingId:[0-9]+}", h.Community.ListListingMessages).Methods(http.MethodGet)
	auth.HandleFunc("/favorites", h.Community.AddFavorite).Methods(http.MethodPost)
	auth.HandleFunc("/notifications/{userId:[0-9]+}", h.Notification.ListNotifications).Methods(http.MethodGet)
	auth.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkAsRead).Methods(http.MethodPatch)

	return r
}
