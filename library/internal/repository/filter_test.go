package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libhub/library-api/library/internal/model"
)

func TestBookFilterPredicate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filter   model.BookFilter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "all fields populated combine with AND",
			filter:   model.BookFilter{Title: "aventuras", Author: "artur", ISBN: "001"},
			wantSQL:  "(title ILIKE ? AND author ILIKE ? AND isbn ILIKE ?)",
			wantArgs: []interface{}{"%aventuras%", "%artur%", "%001%"},
		},
		{
			name:     "unset fields are ignored",
			filter:   model.BookFilter{Author: "artur"},
			wantSQL:  "(author ILIKE ?)",
			wantArgs: []interface{}{"%artur%"},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gotSQL, gotArgs, err := bookFilterPredicate(tt.filter).ToSql()
			require.NoError(t, err)
			require.Equal(t, tt.wantSQL, gotSQL)
			require.Equal(t, tt.wantArgs, gotArgs)
		})
	}
}

func TestBookFilterPredicate_Empty(t *testing.T) {
	t.Parallel()
	require.Len(t, bookFilterPredicate(model.BookFilter{}), 0)
}

func TestLoanFilterPredicate_OrSemantics(t *testing.T) {
	t.Parallel()

	pred := loanFilterPredicate(model.LoanFilter{ISBN: "123", Customer: "123"})
	gotSQL, gotArgs, err := pred.ToSql()
	require.NoError(t, err)
	require.Equal(t, "(b.isbn = ? OR l.customer = ?)", gotSQL)
	require.Equal(t, []interface{}{"123", "123"}, gotArgs)
}

func TestLoanFilterPredicate_SingleField(t *testing.T) {
	t.Parallel()

	pred := loanFilterPredicate(model.LoanFilter{Customer: "Fulano"})
	gotSQL, gotArgs, err := pred.ToSql()
	require.NoError(t, err)
	require.Equal(t, "(l.customer = ?)", gotSQL)
	require.Equal(t, []interface{}{"Fulano"}, gotArgs)
	require.Len(t, loanFilterPredicate(model.LoanFilter{}), 0)
}
