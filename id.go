package periodic

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

var ulidpool = newULIDPool()

type ulidPool struct {
	entropy io.Reader
	sync.Mutex
}

func newULIDPool() *ulidPool {
	return &ulidPool{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (u *ulidPool) New() ulid.ULID {
	u.Lock()
	defer u.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), u.entropy)
}

func ULID() ulid.ULID {
	return ulidpool.New()
}
