package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var errConnRefused = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// fakeStore implements UserStorage with injectable failures.
type fakeStore struct {
	mu      sync.RWMutex
	users   map[string]*User // by id
	nextID  int
	findErr error
	idErr   error
	saveErr error

	byUsernameCalls atomic.Int32
	byIDCalls       atomic.Int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[string]*User)}
}

func (f *fakeStore) add(id, username, hash string) *User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &User{ID: id, Username: username, PasswordHash: hash}
	f.users[id] = u
	return u
}

func (f *fakeStore) remove(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
}

func (f *fakeStore) FindByUsername(_ context.Context, username string) (*User, error) {
	f.byUsernameCalls.Add(1)
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*User, error) {
	f.byIDCalls.Add(1)
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.idErr != nil {
		return nil, f.idErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeStore) CreateUser(_ context.Context, u *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return ErrUserExists
		}
	}
	f.nextID++
	u.ID = "user-" + string(rune('0'+f.nextID))
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

// spyHasher is a transparent PasswordHandler that records every Verify.
// costedCalls counts only verifications against a parseable hash, the ones
// a real handler would spend work on.
type spyHasher struct {
	verifyCalls atomic.Int32
	costedCalls atomic.Int32
	verifyErr   error
	legacy      bool
}

func (h *spyHasher) Hash(password string) (string, error) {
	return "spy$" + password, nil
}

func (h *spyHasher) Verify(password, hash string) (bool, error) {
	h.verifyCalls.Add(1)
	if h.verifyErr != nil {
		return false, h.verifyErr
	}
	if !strings.HasPrefix(hash, "spy$") {
		return false, errors.New("unknown hash")
	}
	h.costedCalls.Add(1)
	return hash == "spy$"+password, nil
}

func (h *spyHasher) NeedsRehash(string) bool { return h.legacy }

// fakeCodec encodes an identity as "tok:<id>". Tokens expire at expires,
// or a day from now when it is zero.
type fakeCodec struct {
	expires time.Time
}

func (c fakeCodec) Encode(id Identity) (string, time.Time, error) {
	if id.UserID == "" {
		return "", time.Time{}, errors.New("empty subject")
	}
	expires := c.expires
	if expires.IsZero() {
		expires = time.Now().Add(24 * time.Hour)
	}
	return "tok:" + id.UserID, expires, nil
}

func (fakeCodec) Decode(token string) (string, error) {
	id, ok := strings.CutPrefix(token, "tok:")
	if !ok || id == "" {
		return "", ErrInvalidSession
	}
	return id, nil
}

// recordingObserver counts observations by label.
type recordingObserver struct {
	mu          sync.Mutex
	signIns     map[SignInOutcome]int
	resolutions map[IdentityState]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		signIns:     make(map[SignInOutcome]int),
		resolutions: make(map[IdentityState]int),
	}
}

func (o *recordingObserver) ObserveSignIn(outcome SignInOutcome) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.signIns[outcome]++
}

func (o *recordingObserver) ObserveResolution(state IdentityState) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resolutions[state]++
}
