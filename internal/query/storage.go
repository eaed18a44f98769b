package query

import (
	"strconv"
	"strings"
)

// PageKey is the storage key holding the last viewed page.
const PageKey = "page"

// Storage is the persisted key-value port. Implementations report a missing
// key with ok=false and a nil error.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// Restore seeds a State from storage. Anything but a stored positive integer,
// including a storage failure, yields the default state.
func Restore(st Storage) State {
	s := Default()
	if st == nil {
		return s
	}
	raw, ok, err := st.Get(PageKey)
	if err != nil || !ok {
		return s
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return s
	}
	s.Page = n
	return s
}

// SavePage persists the page. Callers treat a failure as non-fatal.
func SavePage(st Storage, page int) error {
	if st == nil {
		return nil
	}
	return st.Set(PageKey, strconv.Itoa(page))
}
