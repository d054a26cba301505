package posters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campus-poster/backend/internal/copygen"
)

func TestEventRequestAffiliationAlias(t *testing.T) {
	yes, no := true, false
	assert.True(t, EventRequest{IsECNU: &yes}.Event().IsAffiliated)
	assert.False(t, EventRequest{IsAffiliated: &no, IsECNU: &yes}.Event().IsAffiliated)
	assert.False(t, EventRequest{}.Event().IsAffiliated)
}

func TestValidate(t *testing.T) {
	ok := copygen.EventData{Title: "二十个字以内的标题", Time: "2024-03-15T19:00", Location: "L", Organizer: "O"}
	assert.Empty(t, Validate(ok, time.UTC))

	exactly20 := ok
	exactly20.Title = "一二三四五六七八九十一二三四五六七八九十"
	assert.Empty(t, Validate(exactly20, time.UTC))

	tooLong := ok
	tooLong.Title = exactly20.Title + "一"
	assert.Contains(t, Validate(tooLong, time.UTC), "title")

	for _, u := range []string{"ftp://example.com", "example.com", "https://"} {
		bad := ok
		bad.JoinURL = u
		assert.Contains(t, Validate(bad, time.UTC), "join_url", u)
	}
	good := ok
	good.JoinURL = "https://example.com/a?b=c"
	assert.Empty(t, Validate(good, time.UTC))

	assert.Len(t, Validate(copygen.EventData{}, time.UTC), 4)
}
