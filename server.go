package lnurl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/lnrpc/invoicesrpc"
	"github.com/lightningnetwork/lnd/lntypes"
	"github.com/lightningnetwork/lnd/lnwire"
)

// DefaultPaymentExpiry is how long a pay request callback stays valid.
const DefaultPaymentExpiry = 10 * time.Minute

// InvoiceAdder creates invoices. lndclient.LightningClient implements it.
type InvoiceAdder interface {
	AddInvoice(ctx context.Context,
		in *invoicesrpc.AddInvoiceData) (lntypes.Hash, string, error)
}

// ServerConfig configures an LNURL-pay Server.
type ServerConfig struct {
	// BaseURL is the public URL the server is reached at, e.g.
	// https://pay.example.com.
	BaseURL string

	// ListenAddr is the address Run listens on.
	ListenAddr string

	MinSendable lnwire.MilliSatoshi
	MaxSendable lnwire.MilliSatoshi

	// Description is the text/plain metadata entry.
	Description string

	// CommentAllowed is the longest payer comment accepted (LUD-12).
	CommentAllowed uint64

	// SuccessMessage, if set, is returned as a message success action.
	SuccessMessage string

	// PaymentExpiry bounds the time between /pay and the invoice
	// callback.
	PaymentExpiry time.Duration

	// URLConfig validates BaseURL.
	URLConfig *Config
}

// Server is a static LNURL-pay service backed by a lightning node.
type Server struct {
	cfg      *ServerConfig
	invoices InvoiceAdder
	codec    *Codec
	base     *URL
	metadata *Metadata
	router   chi.Router

	// payments maps callback ids to the time /pay handed them out.
	payments   map[string]time.Time
	paymentsMu sync.Mutex

	now func() time.Time
}

// NewServer returns a server creating invoices with invoices.
func NewServer(cfg *ServerConfig, invoices InvoiceAdder) (*Server, error) {
	codec := NewCodec(cfg.URLConfig)

	base, err := ParseCallbackURL(
		strings.TrimSuffix(cfg.BaseURL, "/"), codec.Config(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	err = validateRange(
		cfg.MinSendable, cfg.MaxSendable, keyMinSendable,
		keyMaxSendable,
	)
	if err != nil {
		return nil, err
	}

	metadata, err := NewMetadata(MetadataEntry{
		MimeType: MimeTextPlain,
		Content:  cfg.Description,
	})
	if err != nil {
		return nil, err
	}

	if cfg.PaymentExpiry == 0 {
		cfg.PaymentExpiry = DefaultPaymentExpiry
	}

	s := &Server{
		cfg:      cfg,
		invoices: invoices,
		codec:    codec,
		base:     base,
		metadata: metadata,
		payments: make(map[string]time.Time),
		now:      time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/pay", s.pay)
	r.Get("/invoice/{id}", s.invoice)
	s.router = r

	return s, nil
}

// Handler returns the HTTP handler of the service.
func (s *Server) Handler() http.Handler {
	return s.router
}

// PayURL returns the URL of the pay endpoint.
func (s *Server) PayURL() string {
	return s.base.String() + "/pay"
}

// Lnurl returns the static LNURL-pay code of the server.
func (s *Server) Lnurl() (*Lnurl, error) {
	return s.codec.Encode(s.PayURL())
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.logHello(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    s.cfg.ListenAddr,
		Handler: s.router,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(), 5*time.Second,
		)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logHello() error {
	l, err := s.Lnurl()
	if err != nil {
		return err
	}

	lud17 := "lnurlp" + strings.TrimPrefix(
		s.PayURL(), s.base.Scheme(),
	)

	log.Infof("Static LNURL-pay code: %v", l)
	log.Infof("Static LNURL-pay code: lightning:%v", l)
	log.Infof("Static LNURL-pay code: %v", lud17)

	return nil
}

func (s *Server) pay(w http.ResponseWriter, r *http.Request) {
	// TODO(elle): checkout client IP here to throttle requests.

	id := uuid.New().String()
	now := s.now()

	s.paymentsMu.Lock()
	for k, createdAt := range s.payments {
		if now.Sub(createdAt) > s.cfg.PaymentExpiry {
			delete(s.payments, k)
		}
	}
	s.payments[id] = now
	s.paymentsMu.Unlock()

	callback, err := ParseCallbackURL(
		s.base.String()+"/invoice/"+id, s.codec.Config(),
	)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	resp, err := NewPayResponse(
		callback, s.cfg.MinSendable, s.cfg.MaxSendable, s.metadata,
	)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	resp.CommentAllowed = s.cfg.CommentAllowed

	log.Debugf("Handed out pay request %v", id)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) invoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.paymentsMu.Lock()
	createdAt, ok := s.payments[id]
	delete(s.payments, id)
	s.paymentsMu.Unlock()

	if !ok || s.now().Sub(createdAt) > s.cfg.PaymentExpiry {
		s.writeError(w, http.StatusNotFound,
			fmt.Errorf("unknown or expired payment %q", id))
		return
	}

	amt, err := strconv.ParseUint(r.URL.Query().Get("amount"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest,
			errors.New("expected 'amount' field"))
		return
	}

	msat := lnwire.MilliSatoshi(amt)
	if msat < s.cfg.MinSendable || msat > s.cfg.MaxSendable {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("amount "+
			"must be between %d and %d msat",
			uint64(s.cfg.MinSendable), uint64(s.cfg.MaxSendable)))
		return
	}

	comment := r.URL.Query().Get("comment")
	if uint64(utf8.RuneCountInString(comment)) > s.cfg.CommentAllowed {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("comment "+
			"longer than %d characters", s.cfg.CommentAllowed))
		return
	}

	hash := lntypes.Hash(s.metadata.DescriptionHash())
	_, pr, err := s.invoices.AddInvoice(
		r.Context(), &invoicesrpc.AddInvoiceData{
			Memo:            comment,
			Value:           msat,
			DescriptionHash: hash[:],
		},
	)
	if err != nil {
		log.Errorf("Could not add invoice: %v", err)
		s.writeError(w, http.StatusInternalServerError,
			errors.New("invoice error"))
		return
	}

	var action *SuccessAction
	if s.cfg.SuccessMessage != "" {
		action, err = NewMessageAction(s.cfg.SuccessMessage)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	resp, err := NewPayActionResponse(pr, action)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	log.Infof("Created invoice for %v on payment %v", msat, id)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	log.Debugf("Request failed with %d: %v", status, err)

	writeJSON(w, status, NewErrorResponse(err.Error()))
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	b, err := Marshal(resp, CamelCase)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}
