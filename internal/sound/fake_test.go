package sound

import (
	"strings"
	"sync"
)

// fakeService is an in-memory Service. Files ending in ".wav" register;
// anything else fails with StatusUnspecified.
type fakeService struct {
	mu          sync.Mutex
	next        ID
	sounds      map[ID]map[Property]uint32
	completions map[ID]CompletionFunc
	played      []ID
	alerts      []ID
	addStatus   Status
}

func newFakeService() *fakeService {
	return &fakeService{
		next:        0x1001,
		sounds:      make(map[ID]map[Property]uint32),
		completions: make(map[ID]CompletionFunc),
	}
}

func (f *fakeService) CreateSoundID(path string) (ID, Status) {
	if !strings.HasSuffix(path, ".wav") {
		return Uninitialized, StatusUnspecified
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.sounds[id] = map[Property]uint32{
		PropertyIsUISound:                 1,
		PropertyCompletePlaybackIfAppDies: 0,
	}
	return id, StatusOK
}

func (f *fakeService) DisposeSoundID(id ID) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sounds[id]; !ok {
		return StatusUnspecified
	}
	delete(f.sounds, id)
	delete(f.completions, id)
	return StatusOK
}

// PlaySystemSound records the play and finishes it synchronously.
func (f *fakeService) PlaySystemSound(id ID) {
	f.mu.Lock()
	f.played = append(f.played, id)
	fn := f.completions[id]
	f.mu.Unlock()
	if fn != nil {
		fn(id)
	}
}

func (f *fakeService) PlayAlertSound(id ID) {
	f.mu.Lock()
	f.alerts = append(f.alerts, id)
	f.mu.Unlock()
}

func (f *fakeService) GetPropertyInfo(p Property, id ID) (PropertyInfo, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := ParseProperty(uint32(p)); !ok {
		return PropertyInfo{}, StatusUnsupportedProperty
	}
	if _, ok := f.sounds[id]; !ok {
		return PropertyInfo{}, StatusUnspecified
	}
	return PropertyInfo{Size: PropertySize, Writable: true}, StatusOK
}

func (f *fakeService) GetProperty(p Property, id ID) (uint32, Status) {
	f.mu.Lock()
	defer f.mu.Unlock()
	props, ok := f.sounds[id]
	if !ok {
		return 0, StatusUnspecified
	}
	return props[p], StatusOK
}

func (f *fakeService) SetProperty(p Property, id ID, value uint32) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	props, ok := f.sounds[id]
	if !ok {
		return StatusUnspecified
	}
	props[p] = value
	return StatusOK
}

func (f *fakeService) AddCompletion(id ID, fn CompletionFunc) Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addStatus != StatusOK {
		return f.addStatus
	}
	if _, ok := f.sounds[id]; !ok {
		return StatusUnspecified
	}
	f.completions[id] = fn
	return StatusOK
}

func (f *fakeService) RemoveCompletion(id ID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.completions, id)
}

func (f *fakeService) hasCompletion(id ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.completions[id]
	return ok
}

func (f *fakeService) registered(id ID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.sounds[id]
	return ok
}
