package services

import (
	"bytes"
	"context"
	"image/png"
	"strings"

	"github.com/hostmarket/backend/internal/models"
	"github.com/skip2/go-qrcode"
)

const qrImageSize = 256

// InvitationQRCode renders the accept link of an invitation as a PNG so the
// invitee can open it on another device. Only the invitee of an actionable
// invitation may fetch it.
func (s *SplitBillingService) InvitationQRCode(ctx context.Context, token string, user *models.User) ([]byte, error) {
	inv, err := s.invitationByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !inv.IsActionable(s.now()) {
		return nil, invalidStateError("This invitation is no longer valid.")
	}
	if !strings.EqualFold(inv.InviteeEmail, user.Email) {
		return nil, unauthorizedError("This invitation was sent to a different email address.")
	}

	return renderQRCode(s.acceptURL(inv.Token))
}

func renderQRCode(content string) ([]byte, error) {
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, internalError(err, "Failed to generate QR code")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(qrImageSize)); err != nil {
		return nil, internalError(err, "Failed to encode QR code")
	}
	return buf.Bytes(), nil
}
