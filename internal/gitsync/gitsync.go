// Package gitsync синхронизирует файл данных с git-репозиторием,
// если файл лежит внутри такового. Репозиторий ищется вверх от каталога
// файла; отсутствие репозитория не ошибка, синхронизация просто выключена.
package gitsync

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// имя и адрес коммитера, когда в конфигурации git они не заданы
const (
	fallbackName  = "GTD Tracker"
	fallbackEmail = "gtd@localhost"
)

// Syncer коммитит изменения файла данных и отправляет их в origin
type Syncer struct {
	repo     *git.Repository
	repoRoot string
}

// Open ищет репозиторий, содержащий указанный путь. Если репозитория
// нет, возвращает (nil, nil): вызывающая сторона работает дальше без
// синхронизации.
func Open(path string) (*Syncer, error) {
	dir := filepath.Dir(path)
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("поиск git-репозитория для %s: %w", path, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("рабочее дерево репозитория: %w", err)
	}
	return &Syncer{repo: repo, repoRoot: wt.Filesystem.Root()}, nil
}

// Sync подтягивает изменения из origin, добавляет файл в индекс,
// коммитит с переданным сообщением и отправляет в origin. Отсутствие
// изменений и отсутствие origin не считаются ошибками.
func (s *Syncer) Sync(path, message string) error {
	wt, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("рабочее дерево репозитория: %w", err)
	}

	if err := s.pull(wt); err != nil {
		return err
	}

	rel, err := filepath.Rel(s.repoRoot, path)
	if err != nil {
		return fmt.Errorf("путь %s вне репозитория %s: %w", path, s.repoRoot, err)
	}

	relSlash := filepath.ToSlash(rel)
	if _, err := wt.Add(relSlash); err != nil {
		return fmt.Errorf("добавление %s в индекс: %w", rel, err)
	}

	status, err := wt.Status()
	if err != nil {
		return fmt.Errorf("статус рабочего дерева: %w", err)
	}
	// в статусе только отличия от HEAD: если файла там нет,
	// коммитить нечего
	if _, changed := status[relSlash]; !changed {
		return nil
	}

	name, email := s.signature()
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  name,
			Email: email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("коммит: %w", err)
	}

	return s.push()
}

// signature берёт имя и адрес из конфигурации git, при отсутствии
// подставляет значения по умолчанию
func (s *Syncer) signature() (string, string) {
	name, email := fallbackName, fallbackEmail
	cfg, err := s.repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return name, email
	}
	if cfg.User.Name != "" {
		name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		email = cfg.User.Email
	}
	return name, email
}

// pull забирает изменения из origin до коммита, только fast-forward.
// Репозиторий без origin или без upstream-ветки пропускается.
func (s *Syncer) pull(wt *git.Worktree) error {
	if _, err := s.repo.Remote("origin"); err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return nil
		}
		return fmt.Errorf("проверка origin: %w", err)
	}

	err := wt.Pull(&git.PullOptions{RemoteName: "origin"})
	switch {
	case err == nil,
		errors.Is(err, git.NoErrAlreadyUpToDate),
		errors.Is(err, plumbing.ErrReferenceNotFound),
		errors.Is(err, transport.ErrEmptyRemoteRepository):
		return nil
	default:
		return fmt.Errorf("pull из origin: %w", err)
	}
}

// push отправляет изменения в origin. Репозиторий без origin легален:
// локальных коммитов достаточно.
func (s *Syncer) push() error {
	if _, err := s.repo.Remote("origin"); err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return nil
		}
		return fmt.Errorf("проверка origin: %w", err)
	}

	err := s.repo.Push(&git.PushOptions{RemoteName: "origin"})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push в origin: %w", err)
	}
	return nil
}
