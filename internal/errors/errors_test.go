package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestGetSuggestion(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "explicit suggestion wins",
			err:  WithSuggestion(ErrTimeout, "custom advice"),
			want: "custom advice",
		},
		{
			name: "daemon unreachable",
			err:  fmt.Errorf("%w: dial unix /tmp/x.sock", ErrDaemonUnreachable),
			want: "player daemon",
		},
		{
			name: "quota exceeded",
			err:  ErrQuotaExceeded,
			want: "rate limiting",
		},
		{
			name: "playlist unavailable",
			err:  fmt.Errorf("%w: status 500", ErrPlaylistUnavailable),
			want: "service.endpoint",
		},
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "unknown error",
			err:  errors.New("something odd"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetSuggestion(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("GetSuggestion() = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("GetSuggestion() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	out := Format(ErrDaemonUnreachable)
	if !strings.Contains(out, "Error: player daemon unreachable") {
		t.Errorf("Format() = %q, missing error line", out)
	}
	if !strings.Contains(out, "Suggestion:") {
		t.Errorf("Format() = %q, missing suggestion line", out)
	}

	out = Format(errors.New("something odd"))
	if out != "Error: something odd" {
		t.Errorf("Format() = %q, want bare error line", out)
	}

	if Format(nil) != "" {
		t.Error("Format(nil) should be empty")
	}
}
