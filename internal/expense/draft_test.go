package expense

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/paisa/internal/model"
)

func TestValidateOK(t *testing.T) {
	rec, err := Draft{Title: "Coffee", Amount: " 4.50 ", Date: "2024-01-10", Category: "Food"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, model.Record{Title: "Coffee", Amount: 4.5, Date: "2024-01-10", Category: "Food"}, rec)
}

func TestValidateTrimsEveryField(t *testing.T) {
	padded, err := Draft{Title: " Coffee ", Amount: "4.5", Date: " 2024-01-10 ", Category: " Food "}.Validate()
	require.NoError(t, err)
	plain, err := Draft{Title: "Coffee", Amount: "4.5", Date: "2024-01-10", Category: "Food"}.Validate()
	require.NoError(t, err)
	assert.Equal(t, plain, padded)
}

func TestValidateRequired(t *testing.T) {
	_, err := Draft{Title: "  ", Amount: "", Date: "2024-01-10", Category: "Food"}.Validate()
	var re *RequiredFieldError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, []string{"title", "amount"}, re.Fields)
	assert.Equal(t, MsgRequired, err.Error())

	_, err = Draft{Title: "x", Amount: "1", Date: "", Category: ""}.Validate()
	require.ErrorAs(t, err, &re)
	assert.Equal(t, []string{"date", "category"}, re.Fields)
}

func TestValidateAmount(t *testing.T) {
	for _, amt := range []string{"abc", "4,50", "NaN", "inf", "1e400", "$4"} {
		_, err := Draft{Title: "x", Amount: amt, Date: "2024-01-10", Category: "Food"}.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "amount %q", amt)
		assert.Equal(t, "amount", ve.Field)
		assert.Equal(t, MsgAmountNumeric, ve.Message)
	}
	for _, amt := range []string{"-3", "1e3", ".5", "0"} {
		_, err := Draft{Title: "x", Amount: amt, Date: "2024-01-10", Category: "Food"}.Validate()
		assert.NoError(t, err, "amount %q", amt)
	}
}

func TestValidateDate(t *testing.T) {
	for _, date := range []string{"10/01/2024", "2024-13-01", "2024-02-30", "yesterday"} {
		_, err := Draft{Title: "x", Amount: "1", Date: date, Category: "Food"}.Validate()
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, "date %q", date)
		assert.Equal(t, MsgDateFormat, ve.Message)
	}
}

func TestDraftOf(t *testing.T) {
	d := DraftOf(model.Expense{Key: "k", Title: "Tea", Amount: 2, Date: "2024-01-01", Category: "Food"})
	assert.Equal(t, Draft{Title: "Tea", Amount: "2.0", Date: "2024-01-01", Category: "Food"}, d)
}
