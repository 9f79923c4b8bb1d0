package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/starostahub/internal/model"
)

func kyiv(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		// older tzdata
		loc = time.FixedZone("EET", 2*60*60)
	}
	return loc
}

func TestNormalizer_Date(t *testing.T) {
	n := Normalizer{Loc: kyiv(t)}
	// timestamps land on the local calendar day, not the UTC one
	cases := map[string]string{
		"2024-09-02":                "2024-09-02",
		" 02.09.2024 ":              "2024-09-02",
		"2024/09/02":                "2024-09-02",
		"2024-09-01T22:30:00Z":      "2024-09-02",
		"2024-09-02T08:00:00+03:00": "2024-09-02",
	}
	for in, want := range cases {
		got, err := n.Date(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "tomorrow", "31.02.2024"} {
		_, err := n.Date(bad)
		assert.ErrorIs(t, err, ErrInvalidDate, bad)
	}
}

func TestNormalize_NotRecurringForcesNullUntil(t *testing.T) {
	n := Normalizer{Loc: time.UTC}
	p, err := n.Normalize(model.EventForm{
		Name: "Лекція", Date: "2024-09-02", Time: "10:00",
		Recurring: false, RecurringUntil: "2024-12-31", IsActive: true, Group: 3,
	})
	require.NoError(t, err)
	assert.Nil(t, p.RecurringUntil)
	assert.Equal(t, "Лекція", p.Name)
	assert.Equal(t, "10:00", p.Time)
	assert.Equal(t, model.ID(3), p.Group)
	assert.True(t, p.IsActive)
}

func TestNormalize_Recurring(t *testing.T) {
	n := Normalizer{Loc: time.UTC}
	wd := 1
	p, err := n.Normalize(model.EventForm{
		Name: "Пара", Date: "02.09.2024", Time: "08:30", Weekday: &wd,
		Recurring: true, RecurringUntil: "20.12.2024",
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-09-02", p.Date)
	require.NotNil(t, p.RecurringUntil)
	assert.Equal(t, "2024-12-20", *p.RecurringUntil)
	assert.Equal(t, &wd, p.Weekday)

	p, err = n.Normalize(model.EventForm{Date: "2024-09-02", Recurring: true})
	require.NoError(t, err)
	assert.Nil(t, p.RecurringUntil)

	_, err = n.Normalize(model.EventForm{Date: "2024-09-02", Recurring: true, RecurringUntil: "soon"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNormalize_Idempotent(t *testing.T) {
	n := Normalizer{Loc: kyiv(t)}
	form := model.EventForm{
		Name: "Пара", URL: "https://meet.example/x", Date: "2024-09-01T22:30:00Z", Time: "08:30",
		Recurring: true, RecurringUntil: "20.12.2024", IsActive: true, Group: 5,
	}
	first, err := n.Normalize(form)
	require.NoError(t, err)
	second, err := n.Normalize(form)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// normalizing an already normalized payload changes nothing
	again, err := n.Normalize(model.EventForm{
		Name: first.Name, URL: first.URL, Date: first.Date, Time: first.Time,
		Recurring: first.Recurring, RecurringUntil: *first.RecurringUntil, IsActive: first.IsActive, Group: first.Group,
	})
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestNormalize_EditKeepsID(t *testing.T) {
	id := model.ID(42)
	until := "2024-12-20"
	form := model.FormFromEvent(model.Event{ID: &id, Date: "2024-09-02", RecurringUntil: &until})
	form.Recurring = false

	p, err := Normalizer{}.Normalize(form)
	require.NoError(t, err)
	require.NotNil(t, p.ID)
	assert.Equal(t, id, *p.ID)
	assert.Nil(t, p.RecurringUntil)
}
