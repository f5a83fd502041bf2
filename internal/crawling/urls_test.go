package crawling

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillra/hh-harvester/internal/types"
)

func TestURLBuilder_Search(t *testing.T) {
	b, err := NewURLBuilder("", "data analyst", true)
	require.NoError(t, err)

	raw := b.Search(types.SearchShard{AreaID: 113, Bucket: types.BucketThreeToSix, Page: 2})
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "hh.ru", u.Host)
	assert.Equal(t, "/search/vacancy", u.Path)
	q := u.Query()
	assert.Equal(t, "data analyst", q.Get("text"))
	assert.Equal(t, "113", q.Get("area"))
	assert.Equal(t, "between3And6", q.Get("experience"))
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "20", q.Get("items_on_page"))
	assert.Equal(t, "publication_time", q.Get("order_by"))
	assert.Equal(t, "true", q.Get("only_with_salary"))

	b, err = NewURLBuilder("", "", false)
	require.NoError(t, err)
	u, err = url.Parse(b.Search(types.SearchShard{AreaID: 1, Bucket: types.BucketNoExperience}))
	require.NoError(t, err)
	assert.False(t, u.Query().Has("only_with_salary"))
}

func TestURLBuilder_VacancyAndEmployer(t *testing.T) {
	b, err := NewURLBuilder("http://127.0.0.1:8080/", "", false)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8080/vacancy/123", b.Vacancy(123))

	tests := []struct {
		href    string
		want    string
		wantErr bool
	}{
		{href: "https://hh.ru/employer/42", want: "http://127.0.0.1:8080/employer/42"},
		{href: "/employer/42?hhtmFrom=vacancy", want: "http://127.0.0.1:8080/employer/42"},
		{href: "https://spb.hh.ru/employer/7", want: "http://127.0.0.1:8080/employer/7"},
		{href: "https://example.com/employer/42", wantErr: true},
		{href: "https://hh.ru/vacancy/42", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, err := b.Employer(tt.href)
			if tt.wantErr {
				var urlErr *URLError
				assert.ErrorAs(t, err, &urlErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewURLBuilder_Invalid(t *testing.T) {
	_, err := NewURLBuilder("hh.ru", "", false)
	var urlErr *URLError
	assert.ErrorAs(t, err, &urlErr)
}
