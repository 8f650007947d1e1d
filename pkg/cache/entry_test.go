package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires time.Time
		want    bool
	}{
		{
			name:    "expired entry",
			expires: now.Add(-1 * time.Hour),
			want:    true,
		},
		{
			name:    "valid entry",
			expires: now.Add(1 * time.Hour),
			want:    false,
		},
		{
			name:    "expires exactly now",
			expires: now,
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := Entry{Expires: tt.expires}
			if got := entry.IsExpired(now); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewEntry_CopiesData(t *testing.T) {
	now := time.Now()
	data := []byte(`{"a":1}`)

	entry := NewEntry(data, time.Minute, now)
	data[0] = 'X'

	if string(entry.Data) != `{"a":1}` {
		t.Errorf("entry data aliased caller buffer: %s", entry.Data)
	}
	if !entry.Expires.Equal(now.Add(time.Minute)) {
		t.Errorf("Expires = %v, want %v", entry.Expires, now.Add(time.Minute))
	}
}
