package services

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/jaffery572/allergen-matrix-api/internal/store"
)

// qrSize is the pixel size of generated QR images
const qrSize = 320

// ShareLinks are the shareable URLs for one takeaway's customer view
type ShareLinks struct {
	// MenuURL identifies the takeaway by slug on the published site
	MenuURL string `json:"menuUrl"`
	// CustomerURL opens the customer view page directly
	CustomerURL string `json:"customerUrl"`
	// EmbeddedURL carries the whole single-takeaway payload in the link
	// itself, base64url-encoded, for hosting-free sharing
	EmbeddedURL string `json:"embeddedUrl"`
	// QRImageURL points at a third-party image endpoint rendering the
	// menu link as a QR code
	QRImageURL string `json:"qrImageUrl"`
}

// ShareService builds the shareable links handed to QR rendering and print
// sheets. The core only supplies URLs; image generation and hosting are
// external.
type ShareService interface {
	Links(takeawayID string) (ShareLinks, error)
}

// shareService is the implementation of the ShareService interface
type shareService struct {
	store    *store.Store
	transfer TransferService
	baseURL  string
}

// NewShareService creates a new instance of ShareService. baseURL is the
// published customer-view site base and gains a trailing slash if missing.
func NewShareService(st *store.Store, transfer TransferService, baseURL string) ShareService {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &shareService{store: st, transfer: transfer, baseURL: baseURL}
}

func (s *shareService) Links(takeawayID string) (ShareLinks, error) {
	t, err := s.store.FindTakeaway(takeawayID)
	if err != nil {
		return ShareLinks{}, err
	}

	menuURL := fmt.Sprintf("%s?t=%s", s.baseURL, url.QueryEscape(t.Slug))

	payload, err := s.transfer.PublicTakeaway(t.Slug)
	if err != nil {
		return ShareLinks{}, err
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return ShareLinks{}, err
	}
	encoded := base64.RawURLEncoding.EncodeToString(raw)

	return ShareLinks{
		MenuURL:     menuURL,
		CustomerURL: fmt.Sprintf("%scustomer.html?t=%s", s.baseURL, url.QueryEscape(t.Slug)),
		EmbeddedURL: fmt.Sprintf("%s?d=%s", s.baseURL, encoded),
		QRImageURL:  qrImageURL(menuURL, qrSize),
	}, nil
}

// qrImageURL builds the third-party chart endpoint URL for a QR image of the
// given text
func qrImageURL(text string, size int) string {
	return fmt.Sprintf("https://chart.googleapis.com/chart?cht=qr&chs=%dx%d&chld=M|1&chl=%s",
		size, size, url.QueryEscape(text))
}
