package match

import (
	"errors"
	"net/http"
	"testing"

	"github.com/merev/dart-scoring-api/internal/scoring"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{scoring.NewError(scoring.KindInvalidInput, "bad darts"), http.StatusBadRequest},
		{scoring.NewError(scoring.KindNotFound, "no such leg"), http.StatusNotFound},
		{scoring.NewError(scoring.KindTurnLocked, "advance first"), http.StatusConflict},
		{scoring.NewError(scoring.KindEmptyHistory, "nothing to undo"), http.StatusConflict},
		{scoring.NewError(scoring.KindTerminalState, "leg finished"), http.StatusGone},
		{scoring.NewError(scoring.KindInsufficientPlayers, "one player"), http.StatusUnprocessableEntity},
		{errors.New("pool exhausted"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusForError(tt.err); got != tt.want {
			t.Errorf("StatusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
