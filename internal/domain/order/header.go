package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrUnknownServiceArea = errors.New("order: unknown service area")
	ErrInvalidDate        = errors.New("order: invalid date")
)

// DateLayout: formato en que viaja la fecha del pedido.
const DateLayout = "2006-01-02"

// DefaultServiceAreas: áreas que piden al almacén de víveres.
var DefaultServiceAreas = []string{"Comedor", "Pacientes", "Nutrición Clínica", "Extras", "Dietologia"}

// Header: datos del encabezado y firmas del pedido.
type Header struct {
	BudgetLine    string `json:"budgetLine"`
	Facility      string `json:"facility"`
	Date          string `json:"date"`
	ServiceArea   string `json:"serviceArea"`
	Account       string `json:"account"`
	DeliveredByID string `json:"deliveredById"`
	ReceivedByID  string `json:"receivedById"`
}

// HeaderDefaults: valores fijos del formato (partida y unidad hospitalaria).
type HeaderDefaults struct {
	BudgetLine   string
	Facility     string
	ServiceAreas []string
}

func NewHeader(d HeaderDefaults, now time.Time) Header {
	h := Header{
		BudgetLine: d.BudgetLine,
		Facility:   d.Facility,
		Date:       now.Format(DateLayout),
	}
	if len(d.ServiceAreas) > 0 {
		h.ServiceArea = d.ServiceAreas[0]
	}
	return h
}

// HeaderPatch: actualización parcial; nil = no cambia.
type HeaderPatch struct {
	Date          *string `json:"date"`
	ServiceArea   *string `json:"serviceArea"`
	Account       *string `json:"account"`
	DeliveredByID *string `json:"deliveredById"`
	ReceivedByID  *string `json:"receivedById"`
}

// Apply devuelve el encabezado con el parche aplicado o error sin cambios.
func (h Header) Apply(p HeaderPatch, areas []string) (Header, error) {
	next := h
	if p.Date != nil {
		d := strings.TrimSpace(*p.Date)
		if _, err := time.Parse(DateLayout, d); err != nil {
			return h, fmt.Errorf("%w: %q", ErrInvalidDate, d)
		}
		next.Date = d
	}
	if p.ServiceArea != nil {
		area := strings.TrimSpace(*p.ServiceArea)
		if area != "" && !slices.Contains(areas, area) {
			return h, fmt.Errorf("%w: %q", ErrUnknownServiceArea, area)
		}
		next.ServiceArea = area
	}
	if p.Account != nil {
		next.Account = strings.TrimSpace(*p.Account)
	}
	if p.DeliveredByID != nil {
		next.DeliveredByID = strings.TrimSpace(*p.DeliveredByID)
	}
	if p.ReceivedByID != nil {
		next.ReceivedByID = strings.TrimSpace(*p.ReceivedByID)
	}
	return next, nil
}

// PrintedDate: la fecha como se imprime en el formato (dd/mm/aaaa).
func (h Header) PrintedDate() string {
	t, err := time.Parse(DateLayout, h.Date)
	if err != nil {
		return h.Date
	}
	return t.Format("02/01/2006")
}
