package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hostmarket/backend/internal/models"
	"github.com/hostmarket/backend/internal/services"
)

type SplitBilling interface {
	SendInvitation(ctx context.Context, serverID int64, inviter *models.User, req services.InviteRequest) (*models.BillingInvitation, error)
	Accept(ctx context.Context, token string, user *models.User) (*services.AcceptResult, error)
	Decline(ctx context.Context, token string, user *models.User) error
	Cancel(ctx context.Context, invitationUUID string, inviter *models.User) error
	RemoveShare(ctx context.Context, serverID, targetUserID int64, requester *models.User) error
	GetServerShares(ctx context.Context, serverID int64, requester *models.User) ([]models.ServerBillingShare, error)
	ListPendingInvitations(ctx context.Context, user *models.User) ([]models.BillingInvitation, error)
	InvitationQRCode(ctx context.Context, token string, user *models.User) ([]byte, error)
}

type SplitBillingHandler struct {
	billing SplitBilling
	session
}

func NewSplitBillingHandler(billing SplitBilling, users services.UserDirectory) *SplitBillingHandler {
	return &SplitBillingHandler{billing: billing, session: newSession(users)}
}

// Shares lists a server's billing shares
// @Summary Server billing shares
// @Tags Split Billing
// @Produce json
// @Security BearerAuth
// @Param serverID path int true "Server ID"
// @Success 200 {object} object{success=bool,shares=[]models.ServerBillingShare}
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /servers/{serverID}/billing/shares [get]
func (h *SplitBillingHandler) Shares(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	serverID, ok := pathID(w, r, "serverID")
	if !ok {
		return
	}

	shares, err := h.billing.GetServerShares(r.Context(), serverID, user)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"shares":  shares,
	})
}

// Invite sends a split billing invitation
// @Summary Invite a co-payer
// @Description Invite an email address to split the server's cost 50/50
// @Tags Split Billing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param serverID path int true "Server ID"
// @Param request body services.InviteRequest true "Invitation"
// @Success 200 {object} object{success=bool,message=string,invitation=models.BillingInvitation}
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /servers/{serverID}/billing/invite [post]
func (h *SplitBillingHandler) Invite(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	serverID, ok := pathID(w, r, "serverID")
	if !ok {
		return
	}

	var req services.InviteRequest
	if !h.decode(w, r, &req) {
		return
	}

	inv, err := h.billing.SendInvitation(r.Context(), serverID, user, req)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Invitation sent to " + inv.InviteeEmail,
		"invitation": inv,
	})
}

// RemoveShare removes a co-payer from a server
// @Summary Remove billing share
// @Tags Split Billing
// @Produce json
// @Security BearerAuth
// @Param serverID path int true "Server ID"
// @Param userID path int true "User ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /servers/{serverID}/billing/shares/{userID} [delete]
func (h *SplitBillingHandler) RemoveShare(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	serverID, ok := pathID(w, r, "serverID")
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	if err := h.billing.RemoveShare(r.Context(), serverID, targetID, user); err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Billing share removed",
	})
}

// Invitations lists the caller's pending invitations
// @Summary My pending invitations
// @Tags Split Billing
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,invitations=[]models.BillingInvitation}
// @Router /billing/invitations [get]
func (h *SplitBillingHandler) Invitations(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	invitations, err := h.billing.ListPendingInvitations(r.Context(), user)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"invitations": invitations,
	})
}

// Accept joins a server's billing
// @Summary Accept invitation
// @Tags Split Billing
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {object} object{success=bool,message=string,server=models.ServerSummary,share_percentage=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /billing/invitations/{token}/accept [post]
func (h *SplitBillingHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	result, err := h.billing.Accept(r.Context(), chi.URLParam(r, "token"), user)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"message":          "You are now sharing billing for " + result.Server.Name,
		"server":           result.Server,
		"share_percentage": result.SharePercentage.StringFixed(2),
	})
}

// Decline rejects an invitation
// @Summary Decline invitation
// @Tags Split Billing
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /billing/invitations/{token}/decline [post]
func (h *SplitBillingHandler) Decline(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.billing.Decline(r.Context(), chi.URLParam(r, "token"), user); err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Invitation declined",
	})
}

// Cancel withdraws an invitation
// @Summary Cancel invitation
// @Tags Split Billing
// @Produce json
// @Security BearerAuth
// @Param invitationUUID path string true "Invitation UUID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /billing/invitations/{invitationUUID} [delete]
func (h *SplitBillingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.billing.Cancel(r.Context(), chi.URLParam(r, "invitationUUID"), user); err != nil {
		services.SendServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Invitation cancelled",
	})
}

// QRCode renders the accept link as a QR code
// @Summary Invitation QR code
// @Tags Split Billing
// @Produce png
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {file} binary
// @Failure 400 {object} services.ErrorResponse
// @Failure 403 {object} services.ErrorResponse
// @Router /billing/invitations/{token}/qr [get]
func (h *SplitBillingHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	user, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	png, err := h.billing.InvitationQRCode(r.Context(), chi.URLParam(r, "token"), user)
	if err != nil {
		services.SendServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
