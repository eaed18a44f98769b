package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapStorage struct {
	data   map[string]string
	getErr error
	setErr error
}

func (m *mapStorage) Get(key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStorage) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = value
	return nil
}

func TestRestore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		st   Storage
		want int
	}{
		{"nil storage", nil, 1},
		{"missing key", &mapStorage{}, 1},
		{"stored page", &mapStorage{data: map[string]string{PageKey: "4"}}, 4},
		{"padded", &mapStorage{data: map[string]string{PageKey: " 6 "}}, 6},
		{"garbage", &mapStorage{data: map[string]string{PageKey: "four"}}, 1},
		{"zero", &mapStorage{data: map[string]string{PageKey: "0"}}, 1},
		{"negative", &mapStorage{data: map[string]string{PageKey: "-2"}}, 1},
		{"storage failure", &mapStorage{getErr: errors.New("disk gone")}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Restore(tt.st)
			assert.Equal(t, tt.want, s.Page)
			assert.False(t, IsFilterActive(s))
		})
	}
}

func TestSavePage(t *testing.T) {
	t.Parallel()

	st := &mapStorage{}
	require.NoError(t, SavePage(st, 12))
	assert.Equal(t, "12", st.data[PageKey])
	assert.Equal(t, 12, Restore(st).Page)

	st.setErr = errors.New("read-only")
	assert.Error(t, SavePage(st, 3))
	assert.NoError(t, SavePage(nil, 3))
}
