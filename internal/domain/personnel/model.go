package personnel

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPerson = errors.New("personnel: unknown person")

type Person struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

// Roster: listas fijas para las firmas "Entregado por" y "Recibido por".
type Roster struct {
	DeliveredBy []Person `json:"deliveredBy"`
	ReceivedBy  []Person `json:"receivedBy"`
}

func NewRoster(deliveredBy, receivedBy []Person) Roster {
	return Roster{DeliveredBy: clean(deliveredBy), ReceivedBy: clean(receivedBy)}
}

// Delivery busca en la lista de quien entrega. id vacío = sin seleccionar.
func (r Roster) Delivery(id string) (Person, error) {
	return lookup(r.DeliveredBy, id)
}

// Reception busca en la lista de quien recibe.
func (r Roster) Reception(id string) (Person, error) {
	return lookup(r.ReceivedBy, id)
}

func lookup(list []Person, id string) (Person, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Person{}, nil
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return Person{}, fmt.Errorf("%w: %q", ErrUnknownPerson, id)
}

// clean quita entradas sin id o sin nombre e ids repetidos.
func clean(in []Person) []Person {
	out := make([]Person, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, p := range in {
		p.ID, p.Name = strings.TrimSpace(p.ID), strings.TrimSpace(p.Name)
		if p.ID == "" || p.Name == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		out = append(out, p)
	}
	return out
}
