package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// List decodes a collection response. The backend answers some endpoints
// with a bare array and others with {"items": [...], "total": n}; both land
// here. The admin user listing names its array "users" instead of "items".
// Total is len(Items) when the envelope omits it.
type List[T any] struct {
	Items []T
	Total int
}

type listEnvelope[T any] struct {
	Items []T  `json:"items"`
	Users []T  `json:"users,omitempty"`
	Total *int `json:"total"`
}

func (l *List[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*l = List[T]{Items: []T{}}
		return nil
	case b[0] == '[':
		var items []T
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		*l = newList(items, nil)
		return nil
	case b[0] == '{':
		var env listEnvelope[T]
		if err := json.Unmarshal(b, &env); err != nil {
			return err
		}
		items := env.Items
		if items == nil {
			items = env.Users
		}
		*l = newList(items, env.Total)
		return nil
	default:
		return fmt.Errorf("%w: unexpected list payload", ErrInvalidResponse)
	}
}

func (l List[T]) MarshalJSON() ([]byte, error) {
	items := l.Items
	if items == nil {
		items = []T{}
	}
	return json.Marshal(listEnvelope[T]{Items: items, Total: &l.Total})
}

func newList[T any](items []T, total *int) List[T] {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	if total != nil && *total >= n {
		n = *total
	}
	return List[T]{Items: items, Total: n}
}
