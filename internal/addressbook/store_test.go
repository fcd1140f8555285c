package addressbook_test

import (
	"sync"
	"testing"

	"github.com/dukerupert/addressbook/internal/address"
	"github.com/dukerupert/addressbook/internal/addressbook"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTrip(t *testing.T) {
	store := addressbook.NewStore()
	candidates := address.Synthesize("1234", "10")
	require.NotEmpty(t, candidates)

	entry, err := addressbook.NewEntry(candidates, candidates[1].ID, addressbook.Person{FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	store.Add(entry)

	list := store.List()
	require.Len(t, list, 1)
	assert.Equal(t, candidates[1], list[0].Address, "stored address must be verbatim")
	assert.Equal(t, "Ada", list[0].FirstName)
	assert.Equal(t, "Lovelace", list[0].LastName)
}

func TestStore_ListIsACopy(t *testing.T) {
	store := addressbook.NewStore()
	store.Add(domain.PersonAddress{FirstName: "Ada"})

	list := store.List()
	list[0].FirstName = "Grace"

	assert.Equal(t, "Ada", store.List()[0].FirstName)
}

func TestStore_KeepsInsertionOrder(t *testing.T) {
	store := addressbook.NewStore()
	store.Add(domain.PersonAddress{FirstName: "first"})
	store.Add(domain.PersonAddress{FirstName: "second"})

	list := store.List()
	require.Len(t, list, 2)
	assert.Equal(t, "first", list[0].FirstName)
	assert.Equal(t, "second", list[1].FirstName)
	assert.Equal(t, 2, store.Len())
}

func TestStore_ConcurrentAdds(t *testing.T) {
	store := addressbook.NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Add(domain.PersonAddress{FirstName: "x"})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}

func TestNewEntry_Rejections(t *testing.T) {
	candidates := address.Synthesize("1234", "10")
	person := addressbook.Person{FirstName: "Ada", LastName: "Lovelace"}

	tests := []struct {
		name        string
		candidates  []domain.Address
		selectedID  string
		person      addressbook.Person
		wantMessage string
		wantCode    string
	}{
		{"nothing selected", candidates, "", person, addressbook.MsgNoSelection, domain.EINVALID},
		{"no candidates", nil, "abc", person, addressbook.MsgNoSelection, domain.EINVALID},
		{"stale selection", candidates, "does-not-exist", person, addressbook.MsgSelectionNotFound, domain.ENOTFOUND},
		{"missing first name", candidates, candidates[0].ID, addressbook.Person{LastName: "Lovelace"}, addressbook.MsgNamesMandatory, domain.EINVALID},
		{"blank last name", candidates, candidates[0].ID, addressbook.Person{FirstName: "Ada", LastName: "   "}, addressbook.MsgNamesMandatory, domain.EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := addressbook.NewEntry(tt.candidates, tt.selectedID, tt.person)

			require.Error(t, err)
			assert.Equal(t, tt.wantMessage, domain.ErrorMessage(err))
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
		})
	}
}

func TestNewEntry_TrimsNames(t *testing.T) {
	candidates := address.Synthesize("1234", "10")

	entry, err := addressbook.NewEntry(candidates, candidates[0].ID, addressbook.Person{FirstName: " Ada ", LastName: "Lovelace\n"})

	require.NoError(t, err)
	assert.Equal(t, "Ada", entry.FirstName)
	assert.Equal(t, "Lovelace", entry.LastName)
}
