package testutil

import (
	"context"
	"os"

	"github.com/taskdeck/taskdeck/taskstore"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireStore opens a throwaway task database under a temp directory
// and returns it along with its cleanup function.
func AcquireStore(ctx context.Context, t TestLog) (*taskstore.Store, func()) {
	dir, err := os.MkdirTemp("", "taskdeck-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := taskstore.Open(ctx, dir)
	if err != nil {
		t.Fatal(err)
	}
	return store, func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}
