package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hcg-gdl/pedido-viveres/internal/document"
	"github.com/hcg-gdl/pedido-viveres/internal/domain/catalog"
	"github.com/hcg-gdl/pedido-viveres/internal/domain/order"
	"github.com/hcg-gdl/pedido-viveres/internal/domain/personnel"
	"github.com/hcg-gdl/pedido-viveres/internal/infra/metrics"
	"github.com/hcg-gdl/pedido-viveres/internal/session"
)

const maxBodyBytes = 64 << 10

var (
	errUnknownArticle = errors.New("catalog: unknown article")
	errNothingToPrint = errors.New("order: no item has an article")
	errBadFormat      = errors.New("unsupported document format")
	errNoDispatcher   = errors.New("telegram dispatch not configured")
)

// PDFRenderer: *document.PDFRenderer en producción.
type PDFRenderer interface {
	Render(ctx context.Context, d document.Document) ([]byte, error)
}

// Dispatcher: *telegram.Dispatcher en producción.
type Dispatcher interface {
	SendDocument(ctx context.Context, name string, data []byte, caption string) error
}

// API atiende la captura de pedidos. Dispatcher puede ser nil.
type API struct {
	Log        *slog.Logger
	Catalog    *catalog.Catalog
	Roster     personnel.Roster
	Store      *session.Store
	Policy     order.Policy
	Rows       order.RowOptions
	Header     order.HeaderDefaults
	PDF        PDFRenderer
	Dispatcher Dispatcher
	Now        func() time.Time
}

func (a *API) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/catalog", a.listCatalog)
	mux.HandleFunc("GET /api/personnel", a.listPersonnel)
	mux.HandleFunc("GET /api/service-areas", a.listServiceAreas)

	mux.HandleFunc("POST /api/orders", a.createOrder)
	mux.HandleFunc("GET /api/orders/{id}", a.getOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", a.deleteOrder)
	mux.HandleFunc("PATCH /api/orders/{id}/header", a.patchHeader)
	mux.HandleFunc("POST /api/orders/{id}/items", a.addItem)
	mux.HandleFunc("DELETE /api/orders/{id}/items/{itemID}", a.deleteItem)
	mux.HandleFunc("PATCH /api/orders/{id}/items/{itemID}", a.updateField)
	mux.HandleFunc("PUT /api/orders/{id}/items/{itemID}/article", a.selectArticle)
	mux.HandleFunc("PUT /api/orders/{id}/expanded", a.setExpanded)
	mux.HandleFunc("GET /api/orders/{id}/rows", a.printRows)
	for _, format := range []string{"xlsx", "html", "pdf"} {
		mux.HandleFunc("GET /api/orders/{id}/document."+format, a.downloadDocument(format))
	}
	mux.HandleFunc("POST /api/orders/{id}/dispatch", a.dispatch)

	return a.logRequests(mux)
}

// orderView: respuesta común de toda operación sobre un pedido.
type orderView struct {
	ID        string           `json:"id"`
	Header    order.Header     `json:"header"`
	Items     []order.LineItem `json:"items"`
	Expanded  string           `json:"expanded"`
	Printable bool             `json:"printable"`
}

func viewOf(id string, v session.View) orderView {
	st := v.Editor.Snapshot()
	return orderView{
		ID:        id,
		Header:    *v.Header,
		Items:     st.Items,
		Expanded:  st.Expanded,
		Printable: order.Printable(st.Items),
	}
}

func (a *API) listCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Catalog.Articles())
}

func (a *API) listPersonnel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]personnel.Person{
		"deliveredBy": a.Roster.DeliveredBy,
		"receivedBy":  a.Roster.ReceivedBy,
	})
}

func (a *API) listServiceAreas(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, a.Header.ServiceAreas)
}

func (a *API) createOrder(w http.ResponseWriter, _ *http.Request) {
	sess := a.Store.Create(order.NewEditor(a.Policy), order.NewHeader(a.Header, a.now()))
	a.Log.Info("order created", "order", sess.ID)
	a.withSession(w, sess, http.StatusCreated, func(session.View) error { return nil })
}

func (a *API) getOrder(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, http.StatusOK, func(session.View) error { return nil })
}

func (a *API) deleteOrder(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := a.Store.Delete(id); err != nil {
		a.fail(w, err)
		return
	}
	a.Log.Info("order discarded", "order", id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) patchHeader(w http.ResponseWriter, r *http.Request) {
	var patch order.HeaderPatch
	if !a.decode(w, r, &patch) {
		return
	}
	a.mutate(w, r, http.StatusOK, func(v session.View) error {
		next, err := v.Header.Apply(patch, a.Header.ServiceAreas)
		if err != nil {
			return err
		}
		if _, err := a.Roster.Delivery(next.DeliveredByID); err != nil {
			return fmt.Errorf("deliveredById: %w", err)
		}
		if _, err := a.Roster.Reception(next.ReceivedByID); err != nil {
			return fmt.Errorf("receivedById: %w", err)
		}
		*v.Header = next
		return nil
	})
}

func (a *API) addItem(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, http.StatusCreated, func(v session.View) error {
		v.Editor.AddItem()
		return nil
	})
}

func (a *API) deleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("itemID")
	a.mutate(w, r, http.StatusOK, func(v session.View) error {
		return v.Editor.DeleteItem(itemID)
	})
}

type fieldRequest struct {
	Field order.Field `json:"field"`
	Value string      `json:"value"`
}

func (a *API) updateField(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if !a.decode(w, r, &req) {
		return
	}
	itemID := r.PathValue("itemID")
	a.mutate(w, r, http.StatusOK, func(v session.View) error {
		if _, ok := v.Editor.Item(itemID); !ok {
			return order.ErrNotFound
		}
		return v.Editor.UpdateField(itemID, req.Field, req.Value)
	})
}

type articleRequest struct {
	Code string `json:"code"`
}

func (a *API) selectArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if !a.decode(w, r, &req) {
		return
	}
	art, ok := a.Catalog.ByCode(req.Code)
	if !ok {
		a.fail(w, fmt.Errorf("%w: %q", errUnknownArticle, req.Code))
		return
	}
	itemID := r.PathValue("itemID")
	a.mutate(w, r, http.StatusOK, func(v session.View) error {
		if _, ok := v.Editor.Item(itemID); !ok {
			return order.ErrNotFound
		}
		return v.Editor.SelectArticle(itemID, art)
	})
}

type expandedRequest struct {
	ID string `json:"id"`
}

func (a *API) setExpanded(w http.ResponseWriter, r *http.Request) {
	var req expandedRequest
	if !a.decode(w, r, &req) {
		return
	}
	a.mutate(w, r, http.StatusOK, func(v session.View) error {
		return v.Editor.SetExpanded(req.ID)
	})
}

func (a *API) printRows(w http.ResponseWriter, r *http.Request) {
	sess, err := a.Store.Get(r.PathValue("id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	var rows []order.PrintRow
	_ = sess.Do(func(v session.View) error {
		rows = v.Editor.PrintRows(a.Rows)
		return nil
	})
	writeJSON(w, http.StatusOK, rows)
}

func (a *API) downloadDocument(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := a.document(r.PathValue("id"))
		if err != nil {
			a.fail(w, err)
			return
		}
		data, contentType, err := a.render(r.Context(), doc, format)
		if err != nil {
			a.fail(w, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		if format != "html" {
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename(format)))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

type dispatchRequest struct {
	Format string `json:"format"`
}

func (a *API) dispatch(w http.ResponseWriter, r *http.Request) {
	if a.Dispatcher == nil {
		a.fail(w, errNoDispatcher)
		return
	}
	req := dispatchRequest{Format: "xlsx"}
	if !a.decodeOptional(w, r, &req) {
		return
	}
	if req.Format != "xlsx" && req.Format != "pdf" {
		a.fail(w, fmt.Errorf("%w: %q", errBadFormat, req.Format))
		return
	}

	doc, err := a.document(r.PathValue("id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	data, _, err := a.render(r.Context(), doc, req.Format)
	if err != nil {
		a.fail(w, err)
		return
	}

	name := doc.Filename(req.Format)
	caption := fmt.Sprintf("Pedido al almacén de víveres %s · %s", doc.Date, doc.ServiceArea)
	if err := a.Dispatcher.SendDocument(r.Context(), name, data, caption); err != nil {
		metrics.Dispatches.WithLabelValues("error").Inc()
		a.Log.Error("dispatch failed", "order", r.PathValue("id"), "err", err)
		writeError(w, http.StatusBadGateway, err)
		return
	}
	metrics.Dispatches.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"sent": name})
}

// document toma una foto del pedido bajo el candado de la sesión; el render va fuera.
func (a *API) document(id string) (document.Document, error) {
	sess, err := a.Store.Get(id)
	if err != nil {
		return document.Document{}, err
	}
	var (
		header order.Header
		items  []order.LineItem
		rows   []order.PrintRow
	)
	_ = sess.Do(func(v session.View) error {
		header = *v.Header
		items = v.Editor.Snapshot().Items
		rows = v.Editor.PrintRows(a.Rows)
		return nil
	})
	if !order.Printable(items) {
		return document.Document{}, errNothingToPrint
	}
	return document.Build(header, a.Roster, rows)
}

func (a *API) render(ctx context.Context, doc document.Document, format string) ([]byte, string, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case "xlsx":
		data, err = document.RenderXLSX(doc)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "html":
		buf := &bytes.Buffer{}
		err = document.RenderHTML(buf, doc)
		data, contentType = buf.Bytes(), "text/html; charset=utf-8"
	case "pdf":
		data, err = a.PDF.Render(ctx, doc)
		contentType = "application/pdf"
	default:
		return nil, "", fmt.Errorf("%w: %q", errBadFormat, format)
	}
	if err != nil {
		a.Log.Error("render failed", "format", format, "err", err)
		return nil, "", err
	}
	metrics.DocumentsRendered.WithLabelValues(format).Inc()
	return data, contentType, nil
}

// mutate corre fn sobre el pedido {id} y responde con el pedido resultante.
func (a *API) mutate(w http.ResponseWriter, r *http.Request, status int, fn func(session.View) error) {
	sess, err := a.Store.Get(r.PathValue("id"))
	if err != nil {
		a.fail(w, err)
		return
	}
	a.withSession(w, sess, status, fn)
}

func (a *API) withSession(w http.ResponseWriter, sess *session.Session, status int, fn func(session.View) error) {
	var view orderView
	err := sess.Do(func(v session.View) error {
		if err := fn(v); err != nil {
			return err
		}
		view = viewOf(sess.ID, v)
		return nil
	})
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, status, view)
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return a.decodeBody(w, r, dst, false)
}

// decodeOptional deja dst intacto si el cuerpo viene vacío (también chunked).
func (a *API) decodeOptional(w http.ResponseWriter, r *http.Request, dst any) bool {
	return a.decodeBody(w, r, dst, true)
}

func (a *API) decodeBody(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if optional && errors.Is(err, io.EOF) {
		return true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
		return false
	}
	return true
}

func (a *API) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.Log.Error("request failed", "err", err)
	}
	writeError(w, status, err)
}

func (a *API) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, errUnknownArticle):
		return http.StatusNotFound
	case errors.Is(err, order.ErrLastItem),
		errors.Is(err, errNothingToPrint):
		return http.StatusConflict
	case errors.Is(err, order.ErrInvalidField),
		errors.Is(err, order.ErrUnknownServiceArea),
		errors.Is(err, order.ErrInvalidDate),
		errors.Is(err, personnel.ErrUnknownPerson),
		errors.Is(err, errBadFormat):
		return http.StatusBadRequest
	case errors.Is(err, errNoDispatcher):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (a *API) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		a.Log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"dur", time.Since(start),
		)
	})
}
