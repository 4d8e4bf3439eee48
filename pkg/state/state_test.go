package state

import (
	"testing"

	"github.com/cerc-io/xcm-emulator/pkg/types"
	"github.com/cerc-io/xcm-emulator/test"
)

type testEvent struct{ name string }

func (e testEvent) Pallet() string { return "Test" }
func (e testEvent) Name() string   { return e.name }

func TestBalances(t *testing.T) {
	s := New()
	key := Key("Balances", "Account", []byte{1})

	test.ExpectBalance(t, types.NewBalance(0), s.GetBalance(key))
	test.NoError(t, s.PutBalance(key, types.Units(5)))
	test.ExpectBalance(t, types.Units(5), s.GetBalance(key))

	test.NoError(t, s.PutBalance(key, types.NewBalance(0)))
	if _, ok := s.Get(key); ok {
		t.Fatal("zero balance left an entry")
	}
	test.ExpectEqual(t, 0, s.Len())
}

func TestRootIsOrderIndependent(t *testing.T) {
	a, b := New(), New()
	test.NoError(t, a.Put([]byte("x"), []byte{1}))
	test.NoError(t, a.Put([]byte("y"), []byte{2}))
	test.NoError(t, b.Put([]byte("y"), []byte{2}))
	test.NoError(t, b.Put([]byte("x"), []byte{1}))

	test.ExpectEqual(t, a.Root(), b.Root())
	if !a.Equal(b) {
		t.Fatal("states differ")
	}

	test.NoError(t, b.Put([]byte("x"), []byte{3}))
	if a.Root() == b.Root() {
		t.Fatal("root did not change")
	}
}

func TestSnapshotRevert(t *testing.T) {
	s := New()
	test.NoError(t, s.SetBlockNumber(1))
	s.Deposit(testEvent{"Before"})
	root := s.Root()
	snap := s.Snapshot()

	test.NoError(t, s.Put([]byte("k"), []byte("v")))
	test.NoError(t, s.SetBlockNumber(2))
	s.Deposit(testEvent{"After"})

	test.NoError(t, s.Revert(snap))
	test.ExpectEqual(t, root, s.Root())
	test.ExpectEqual(t, uint64(1), s.BlockNumber())
	test.ExpectEqual(t, []types.Event{testEvent{"Before"}}, s.Events())
}

func TestCopyIsIndependent(t *testing.T) {
	s := New()
	test.NoError(t, s.Put([]byte("k"), []byte("v")))
	c := s.Copy()
	test.NoError(t, c.Put([]byte("k"), []byte("w")))

	v, _ := s.Get([]byte("k"))
	test.ExpectEqual(t, []byte("v"), v)
}

func TestIteratePrefix(t *testing.T) {
	s := New()
	for _, k := range []string{"A.x:1", "A.x:2", "B.x:1"} {
		test.NoError(t, s.Put([]byte(k), []byte{0}))
	}
	var keys []string
	test.NoError(t, s.Iterate([]byte("A.x:"), func(k, _ []byte) bool {
		keys = append(keys, string(k))
		return true
	}))
	test.ExpectEqual(t, []string{"A.x:1", "A.x:2"}, keys)
}
