package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod_Valid(t *testing.T) {
	cases := map[string]Period{
		"2018 Q2":    {Year: 2018, Quarter: 2, Scheduled: true},
		"2018 q4":    {Year: 2018, Quarter: 4, Scheduled: true},
		"  2020 Q1 ": {Year: 2020, Quarter: 1, Scheduled: true},
		"2019 3":     {Year: 2019, Quarter: 3, Scheduled: true},
	}
	for in, want := range cases {
		got, err := ParsePeriod(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestParsePeriod_Blank(t *testing.T) {
	p, err := ParsePeriod("   ")
	require.NoError(t, err)
	assert.False(t, p.Scheduled)
	assert.Equal(t, "unscheduled", p.String())
}

func TestParsePeriod_Invalid(t *testing.T) {
	for _, in := range []string{"2018", "2018 Q5", "2018 Q0", "soon Q1", "2018 Qx", "2018 Q2 late"} {
		_, err := ParsePeriod(in)
		require.Error(t, err, "input %q", in)
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	}
}

func TestPeriodOffset(t *testing.T) {
	p, err := ParsePeriod("2018 Q2")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Offset(2017, 12))

	first, err := ParsePeriod("2017 Q1")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Offset(2017, 12))

	assert.Equal(t, 12, Period{}.Offset(2017, 12))
	assert.Equal(t, 20, Period{}.Offset(2017, 20))
}

func TestPeriodFromOffset_RoundTrip(t *testing.T) {
	for offset := -6; offset < 16; offset++ {
		p := PeriodFromOffset(offset, 2017)
		assert.Equal(t, offset, p.Offset(2017, 99), "offset %d -> %s", offset, p)
		assert.GreaterOrEqual(t, p.Quarter, 1)
		assert.LessOrEqual(t, p.Quarter, 4)
	}
	assert.Equal(t, "2018 Q2", PeriodFromOffset(5, 2017).String())
}

func TestDefinitionDisplayName(t *testing.T) {
	d := &Definition{ID: "ms1"}
	assert.Equal(t, "ms1", d.DisplayName())
	d.Name = "Parser rewrite"
	assert.Equal(t, "Parser rewrite", d.DisplayName())
}
