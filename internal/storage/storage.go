// Package storage отвечает за чтение и запись файла данных на диске.
package storage

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"

	"gtdTracker/internal/document"
	"gtdTracker/internal/store"
)

// Storage читает и пишет файл данных по фиксированному пути.
// Запись атомарная: содержимое пишется во временный файл рядом
// и переименовывается поверх целевого.
type Storage struct {
	path string
}

// New создаёт Storage для указанного пути файла данных
func New(path string) *Storage {
	return &Storage{path: path}
}

// Path возвращает путь файла данных
func (s *Storage) Path() string {
	return s.path
}

// Load читает и декодирует файл данных. Отсутствие файла не ошибка:
// возвращается пустое хранилище. Повреждённый файл - ошибка, молча
// перезаписывать его пустыми данными нельзя.
func (s *Storage) Load() (*store.Store, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store.New(), nil
		}
		return nil, fmt.Errorf("чтение файла данных %s: %w", s.path, err)
	}

	st, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("декодирование файла данных %s: %w", s.path, err)
	}
	return st, nil
}

// Write атомарно записывает готовые байты документа
func (s *Storage) Write(data []byte) error {
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("запись файла данных %s: %w", s.path, err)
	}
	return nil
}

// Save сериализует хранилище и записывает его на диск
func (s *Storage) Save(st *store.Store) error {
	data, err := document.Encode(st)
	if err != nil {
		return err
	}
	return s.Write(data)
}
