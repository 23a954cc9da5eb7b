package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hostmarket/backend/internal/middleware"
)

// Mount registers the credits and split billing API on r. Every route runs
// behind auth; the admin group additionally requires the root_admin claim.
func Mount(r chi.Router, auth func(http.Handler) http.Handler, admin *AdminCreditHandler, checkout *CheckoutHandler, billing *SplitBillingHandler) {
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Route("/admin/credits", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/users", admin.ListUsers)
			r.Get("/users/{userID}/transactions", admin.Transactions)
			r.Post("/grant", admin.Grant)
			r.Post("/deduct", admin.Deduct)
			r.Post("/refund", admin.Refund)
			r.Get("/statistics", admin.Statistics)
		})

		r.Post("/orders/{orderID}/credits", checkout.ApplyCredits)

		r.Route("/servers/{serverID}/billing", func(r chi.Router) {
			r.Get("/shares", billing.Shares)
			r.Post("/invite", billing.Invite)
			r.Delete("/shares/{userID}", billing.RemoveShare)
		})

		r.Route("/billing/invitations", func(r chi.Router) {
			r.Get("/", billing.Invitations)
			r.Post("/{token}/accept", billing.Accept)
			r.Post("/{token}/decline", billing.Decline)
			r.Get("/{token}/qr", billing.QRCode)
			r.Delete("/{invitationUUID}", billing.Cancel)
		})
	})
}
