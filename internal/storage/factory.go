package storage

import "github.com/cassiama/ProjectLISA/internal"

func NewFileRepositories(usersFile string, logger internal.Logger) (UserRepository, DeviceRepository, func() error, error) {
	storage, err := NewFileStorage(usersFile, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return storage, storage, storage.Close, nil
}

func NewPostgresRepositories(dsn string, logger internal.Logger) (UserRepository, DeviceRepository, func() error, error) {
	storage, err := NewPostgresStorage(dsn, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return storage, storage, storage.Close, nil
}
