package rpcx

import (
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/payrun/internal/server/models"
)

func EncodePerson(p *models.Person) map[string]any {
	return map[string]any{
		"id":         p.ID,
		"name":       p.Name,
		"role":       p.Role,
		"created_at": formatTime(p.CreatedAt),
	}
}

func DecodePerson(s *structpb.Struct) (*models.Person, error) {
	f := NewFields(s)
	p := &models.Person{
		ID:        f.String("id"),
		Name:      f.String("name"),
		Role:      f.String("role"),
		CreatedAt: f.Time("created_at"),
	}
	return p, f.Err
}

func EncodePersonTotal(t *models.PersonTotal) map[string]any {
	return map[string]any{
		"person_id": t.PersonID,
		"name":      t.Name,
		"role":      t.Role,
		"paid":      t.Paid.String(),
		"entries":   t.Entries,
	}
}

func DecodePersonTotal(s *structpb.Struct) (*models.PersonTotal, error) {
	f := NewFields(s)
	t := &models.PersonTotal{
		PersonID: f.String("person_id"),
		Name:     f.String("name"),
		Role:     f.String("role"),
		Paid:     f.Money("paid"),
		Entries:  f.Int("entries"),
	}
	return t, f.Err
}

func EncodeWorkItem(w *models.WorkItem) map[string]any {
	return map[string]any{
		"id":          w.ID,
		"person_id":   w.PersonID,
		"description": w.Description,
		"total":       w.Total.String(),
		"paid":        w.Paid.String(),
		"completed":   w.Completed,
		"priority":    w.Priority,
		"created_at":  formatTime(w.CreatedAt),
	}
}

func decodeWorkItem(f *Fields) models.WorkItem {
	return models.WorkItem{
		ID:          f.String("id"),
		PersonID:    f.String("person_id"),
		Description: f.String("description"),
		Total:       f.Money("total"),
		Paid:        f.Money("paid"),
		Completed:   f.Bool("completed"),
		Priority:    f.Int("priority"),
		CreatedAt:   f.Time("created_at"),
	}
}

func DecodeWorkItem(s *structpb.Struct) (*models.WorkItem, error) {
	f := NewFields(s)
	w := decodeWorkItem(f)
	return &w, f.Err
}

func EncodeBacklogItem(b *models.BacklogItem) map[string]any {
	m := EncodeWorkItem(&b.WorkItem)
	m["person_name"] = b.PersonName
	m["person_role"] = b.PersonRole
	m["slotted"] = b.Slotted
	return m
}

func DecodeBacklogItem(s *structpb.Struct) (*models.BacklogItem, error) {
	f := NewFields(s)
	b := &models.BacklogItem{
		WorkItem:   decodeWorkItem(f),
		PersonName: f.String("person_name"),
		PersonRole: f.String("person_role"),
		Slotted:    f.Bool("slotted"),
	}
	return b, f.Err
}

func EncodeSlot(b *models.BoardSlot) map[string]any {
	return map[string]any{
		"id":           b.ID,
		"position":     b.Position,
		"work_item_id": b.WorkItemID,
		"person_id":    b.PersonID,
		"person_name":  b.PersonName,
		"person_role":  b.PersonRole,
		"description":  b.Description,
		"amount":       b.Amount.String(),
		"created_at":   formatTime(b.CreatedAt),
	}
}

func DecodeSlot(s *structpb.Struct) (*models.BoardSlot, error) {
	f := NewFields(s)
	b := &models.BoardSlot{
		ID:          f.String("id"),
		Position:    f.Int("position"),
		WorkItemID:  f.String("work_item_id"),
		PersonID:    f.String("person_id"),
		PersonName:  f.String("person_name"),
		PersonRole:  f.String("person_role"),
		Description: f.String("description"),
		Amount:      f.Money("amount"),
		CreatedAt:   f.Time("created_at"),
	}
	return b, f.Err
}

// EncodePosition encodes an empty position with a null slot.
func EncodePosition(p models.BoardPosition) map[string]any {
	var slot any
	if !p.Empty() {
		slot = EncodeSlot(p.Slot)
	}
	return map[string]any{"position": p.Position, "slot": slot}
}

func DecodePosition(s *structpb.Struct) (models.BoardPosition, error) {
	f := NewFields(s)
	p := models.BoardPosition{Position: f.Int("position")}
	if f.Err != nil {
		return p, f.Err
	}
	if slot := f.Struct("slot"); slot != nil {
		b, err := DecodeSlot(slot)
		if err != nil {
			return p, err
		}
		p.Slot = b
	}
	return p, f.Err
}

func EncodeHistoryEntry(e *models.HistoryEntry) map[string]any {
	return map[string]any{
		"id":           e.ID,
		"person_id":    e.PersonID,
		"work_item_id": e.WorkItemID,
		"person_name":  e.PersonName,
		"description":  e.Description,
		"amount":       e.Amount.String(),
		"created_at":   formatTime(e.CreatedAt),
	}
}

func DecodeHistoryEntry(s *structpb.Struct) (*models.HistoryEntry, error) {
	f := NewFields(s)
	e := &models.HistoryEntry{
		ID:          f.String("id"),
		PersonID:    f.String("person_id"),
		WorkItemID:  f.String("work_item_id"),
		PersonName:  f.String("person_name"),
		Description: f.String("description"),
		Amount:      f.Money("amount"),
		CreatedAt:   f.Time("created_at"),
	}
	return e, f.Err
}

func EncodeRun(r *models.Run) map[string]any {
	entries := make([]any, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, EncodeHistoryEntry(e))
	}
	return map[string]any{
		"id":          r.ID,
		"approved_at": formatTime(r.ApprovedAt),
		"total":       r.Total.String(),
		"entries":     entries,
	}
}

func DecodeRun(s *structpb.Struct) (*models.Run, error) {
	f := NewFields(s)
	r := &models.Run{
		ID:         f.String("id"),
		ApprovedAt: f.Time("approved_at"),
		Total:      f.Money("total"),
	}
	if f.Err != nil {
		return nil, f.Err
	}
	entries, err := Decode(s, "entries", DecodeHistoryEntry)
	if err != nil {
		return nil, err
	}
	r.Entries = entries
	return r, nil
}

func EncodeMismatch(m models.Mismatch) map[string]any {
	return map[string]any{
		"work_item_id": m.WorkItemID,
		"paid":         m.Paid.String(),
		"ledger":       m.Ledger.String(),
	}
}

func DecodeMismatch(s *structpb.Struct) (models.Mismatch, error) {
	f := NewFields(s)
	m := models.Mismatch{
		WorkItemID: f.String("work_item_id"),
		Paid:       f.Money("paid"),
		Ledger:     f.Money("ledger"),
	}
	return m, f.Err
}
