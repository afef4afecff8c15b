package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/cassiama/ProjectLISA/internal"
)

// FileStorage keeps every user document (devices embedded) in memory and
// persists the whole set to a single JSON file through a debounced save
// worker.
type FileStorage struct {
	users       map[string]*internal.User // userID -> User
	tokenIndex  map[string]string         // token -> userID
	emailIndex  map[string]string         // email -> userID
	serialIndex map[string]string         // serial number -> userID
	mu          sync.RWMutex
	usersFile   string
	saveChan    chan struct{}
	shutdown    chan struct{}
	saveDelay   time.Duration
	logger      internal.Logger
}

func NewFileStorage(usersFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		users:       make(map[string]*internal.User),
		tokenIndex:  make(map[string]string),
		emailIndex:  make(map[string]string),
		serialIndex: make(map[string]string),
		usersFile:   usersFile,
		saveChan:    make(chan struct{}, 1),
		shutdown:    make(chan struct{}),
		saveDelay:   500 * time.Millisecond,
		logger:      logger,
	}

	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func (s *FileStorage) load() error {
	file, err := os.Open(s.usersFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var users []*internal.User
	if err := json.NewDecoder(file).Decode(&users); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.ID] = u
		s.tokenIndex[u.Token] = u.ID
		s.emailIndex[u.Email] = u.ID
		for _, d := range u.Devices {
			s.serialIndex[d.SerialNumber] = u.ID
		}
	}
	return nil
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) save() error {
	s.mu.RLock()
	users := make([]*internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.RUnlock()

	return atomicWriteFileJSON(s.usersFile, users)
}

// saveWorker batches save operations to avoid frequent disk writes.
func (s *FileStorage) saveWorker() {
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: error saving users: %v", err)
			}
		case <-s.shutdown:
			return
		}
	}
}

func (s *FileStorage) signalSave() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

// Close stops the save worker and flushes pending data synchronously.
func (s *FileStorage) Close() error {
	close(s.shutdown)
	return s.save()
}

// --- UserRepository ---

func (s *FileStorage) CreateUser(ctx context.Context, user *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.emailIndex[user.Email]; exists {
		return fmt.Errorf("storage: email already registered: %w", internal.ErrConflict)
	}
	cp := cloneUser(user)
	s.users[cp.ID] = cp
	s.tokenIndex[cp.Token] = cp.ID
	s.emailIndex[cp.Email] = cp.ID
	s.signalSave()
	return nil
}

func (s *FileStorage) GetUser(ctx context.Context, userID string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	return cloneUser(u), nil
}

func (s *FileStorage) GetUserByEmail(ctx context.Context, email string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emailIndex[email]
	if !ok {
		return nil, fmt.Errorf("storage: user with email %s: %w", email, internal.ErrNotFound)
	}
	return cloneUser(s.users[id]), nil
}

func (s *FileStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tokenIndex[token]
	if !ok {
		return nil, fmt.Errorf("storage: user token: %w", internal.ErrNotFound)
	}
	return cloneUser(s.users[id]), nil
}

func (s *FileStorage) AddUserPoints(ctx context.Context, userID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	u.TotalPoints += delta
	s.signalSave()
	return nil
}

func (s *FileStorage) SubtractUserPoints(ctx context.Context, userID string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	if n > u.TotalPoints {
		return fmt.Errorf("storage: balance %d below %d: %w", u.TotalPoints, n, internal.ErrInsufficientPoints)
	}
	u.TotalPoints -= n
	s.signalSave()
	return nil
}

func (s *FileStorage) PenalizeUserPoints(ctx context.Context, userID string, n int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return 0, fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	applied := n
	if applied > u.TotalPoints {
		applied = u.TotalPoints
	}
	u.TotalPoints -= applied
	s.signalSave()
	return applied, nil
}

func (s *FileStorage) TopUsers(ctx context.Context, limit int) ([]internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, *cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].TotalPoints > users[j].TotalPoints })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

// --- DeviceRepository ---

func (s *FileStorage) RegisterDevice(ctx context.Context, device *internal.Device) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[device.Owner]
	if !ok {
		return fmt.Errorf("storage: user %s: %w", device.Owner, internal.ErrNotFound)
	}
	if _, exists := s.serialIndex[device.SerialNumber]; exists {
		return fmt.Errorf("storage: serial number already registered: %w", internal.ErrConflict)
	}
	u.Devices = append(u.Devices, *cloneDevice(device))
	s.serialIndex[device.SerialNumber] = u.ID
	s.signalSave()
	return nil
}

func (s *FileStorage) GetDevice(ctx context.Context, userID, deviceID string) (*internal.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, err := s.findDevice(userID, deviceID)
	if err != nil {
		return nil, err
	}
	return cloneDevice(d), nil
}

func (s *FileStorage) ListDevices(ctx context.Context, userID string) ([]internal.Device, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	devices := make([]internal.Device, 0, len(u.Devices))
	for i := range u.Devices {
		devices = append(devices, *cloneDevice(&u.Devices[i]))
	}
	return devices, nil
}

func (s *FileStorage) RemoveDevice(ctx context.Context, userID, deviceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	for i := range u.Devices {
		if u.Devices[i].ID == deviceID {
			delete(s.serialIndex, u.Devices[i].SerialNumber)
			u.Devices = append(u.Devices[:i], u.Devices[i+1:]...)
			s.signalSave()
			return nil
		}
	}
	return fmt.Errorf("storage: device %s: %w", deviceID, internal.ErrNotFound)
}

func (s *FileStorage) ReplaceDeviceGoals(ctx context.Context, userID, deviceID string, goals []internal.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.findDevice(userID, deviceID)
	if err != nil {
		return err
	}
	d.Goals = append([]internal.Goal(nil), goals...)
	s.signalSave()
	return nil
}

func (s *FileStorage) UpdateDeviceGoalPoints(ctx context.Context, userID, deviceID, description string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.findDevice(userID, deviceID)
	if err != nil {
		return err
	}
	for i := range d.Goals {
		if d.Goals[i].Description == description {
			d.Goals[i].AccruedPoints += delta
			s.signalSave()
			return nil
		}
	}
	return fmt.Errorf("storage: goal %q not modified: %w", description, internal.ErrConflict)
}

func (s *FileStorage) UpdateDeviceLogs(ctx context.Context, userID, deviceID string, newCurrent internal.UsageLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.findDevice(userID, deviceID)
	if err != nil {
		return err
	}
	d.PreviousLog = d.CurrentLog
	d.CurrentLog = newCurrent
	s.signalSave()
	return nil
}

func (s *FileStorage) SerialNumberExists(ctx context.Context, serial string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.serialIndex[serial]
	return exists, nil
}

// findDevice returns a pointer into the live user document; callers must hold
// the lock.
func (s *FileStorage) findDevice(userID, deviceID string) (*internal.Device, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("storage: user %s: %w", userID, internal.ErrNotFound)
	}
	for i := range u.Devices {
		if u.Devices[i].ID == deviceID {
			return &u.Devices[i], nil
		}
	}
	return nil, fmt.Errorf("storage: device %s: %w", deviceID, internal.ErrNotFound)
}

func cloneUser(u *internal.User) *internal.User {
	cp := *u
	cp.Devices = make([]internal.Device, 0, len(u.Devices))
	for i := range u.Devices {
		cp.Devices = append(cp.Devices, *cloneDevice(&u.Devices[i]))
	}
	return &cp
}

func cloneDevice(d *internal.Device) *internal.Device {
	cp := *d
	cp.Goals = append([]internal.Goal(nil), d.Goals...)
	return &cp
}

// --- Compile-time assertions ---
var _ UserRepository = (*FileStorage)(nil)
var _ DeviceRepository = (*FileStorage)(nil)
