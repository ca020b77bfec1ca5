// Package store is the diskv-backed persistence container shared by the CLI
// and the terminal UI.
package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
	"pkt.systems/pslog"

	"tableflip.dev/daybook/pkg/auth"
	"tableflip.dev/daybook/pkg/pomodoro"
	"tableflip.dev/daybook/pkg/todo"
)

// Buckets group records on disk as <base>/<bucket>/<owner>/<id>.
const (
	BucketTodos    = "todos"
	BucketSessions = "sessions"
	BucketAccounts = "accounts"
	BucketSettings = "settings"

	globalOwner = "_"
)

// Persistence defines the storage contract for every record type.
type Persistence interface {
	Todos(ctx context.Context, owner string) []*todo.Todo
	StoreTodo(t *todo.Todo) error
	DeleteTodo(t *todo.Todo) error

	Sessions(ctx context.Context, owner string) []*pomodoro.Session
	StoreSession(s *pomodoro.Session) error

	Account(username string) (*auth.Account, error)
	StoreAccount(a *auth.Account) error
	Usernames(ctx context.Context) []string

	Setting(name string) (string, bool, error)
	StoreSetting(name, value string) error

	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	return LoadWithLogger(cfg, nil)
}

// LoadWithLogger is Load with decode and watcher problems reported to logger.
func LoadWithLogger(cfg Config, logger pslog.Logger) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{
		d: diskv.New(diskv.Options{
			BasePath:          basePath,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      1024 * 1024, // 1MB
		}),
		basePath: basePath,
		log:      logger.With("store", basePath),
	}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
	log      pslog.Logger
}

func (p *persistence) Todos(ctx context.Context, owner string) []*todo.Todo {
	all := make([]*todo.Todo, 0)
	for key := range p.d.KeysPrefix(bucketPrefix(BucketTodos, owner), ctx.Done()) {
		t := &todo.Todo{}
		if err := p.readJSON(key, t); err != nil {
			p.log.Warn("store: skip unreadable todo", "key", key, "err", err)
			continue
		}
		all = append(all, t)
	}
	todo.Sort(all)
	return all
}

func (p *persistence) StoreTodo(t *todo.Todo) error {
	if t == nil || t.ID == "" || t.Owner == "" {
		return errors.New("store: todo id and owner required")
	}
	return p.writeJSON(toKey(BucketTodos, t.Owner, t.ID), t)
}

func (p *persistence) DeleteTodo(t *todo.Todo) error {
	if t == nil || t.ID == "" || t.Owner == "" {
		return errors.New("store: todo id and owner required")
	}
	return p.d.Erase(toKey(BucketTodos, t.Owner, t.ID))
}

func (p *persistence) Sessions(ctx context.Context, owner string) []*pomodoro.Session {
	all := make([]*pomodoro.Session, 0)
	for key := range p.d.KeysPrefix(bucketPrefix(BucketSessions, owner), ctx.Done()) {
		s := &pomodoro.Session{}
		if err := p.readJSON(key, s); err != nil {
			p.log.Warn("store: skip unreadable session", "key", key, "err", err)
			continue
		}
		all = append(all, s)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Ended.Equal(all[j].Ended) {
			return all[i].ID < all[j].ID
		}
		return all[i].Ended.Before(all[j].Ended)
	})
	return all
}

func (p *persistence) StoreSession(s *pomodoro.Session) error {
	if s == nil || s.ID == "" || s.Owner == "" {
		return errors.New("store: session id and owner required")
	}
	return p.writeJSON(toKey(BucketSessions, s.Owner, s.ID), s)
}

func (p *persistence) Account(username string) (*auth.Account, error) {
	a := &auth.Account{}
	if err := p.readJSON(toKey(BucketAccounts, globalOwner, encodeName(username)), a); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, auth.ErrAccountNotFound
		}
		return nil, fmt.Errorf("store: read account: %w", err)
	}
	return a, nil
}

func (p *persistence) StoreAccount(a *auth.Account) error {
	if a == nil || a.Username == "" {
		return errors.New("store: account username required")
	}
	return p.writeJSON(toKey(BucketAccounts, globalOwner, encodeName(a.Username)), a)
}

func (p *persistence) Usernames(ctx context.Context) []string {
	names := make([]string, 0)
	for key := range p.d.KeysPrefix(bucketPrefix(BucketAccounts, globalOwner), ctx.Done()) {
		pk := keyToPathTransform(key)
		if name, err := decodeName(pk.FileName); err == nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (p *persistence) Setting(name string) (string, bool, error) {
	val, err := p.d.Read(toKey(BucketSettings, globalOwner, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("store: read setting %s: %w", name, err)
	}
	return string(val), true, nil
}

func (p *persistence) StoreSetting(name, value string) error {
	if strings.TrimSpace(name) == "" || strings.Contains(name, "/") {
		return fmt.Errorf("store: invalid setting name %q", name)
	}
	return p.d.Write(toKey(BucketSettings, globalOwner, name), []byte(value))
}

func (p *persistence) readJSON(key string, target any) error {
	val, err := p.d.Read(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(val, target)
}

func (p *persistence) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.d.Write(key, data)
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "/")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pathKey.Path...), pathKey.FileName), "/")
}

// toKey makes `bucket/owner/id`
func toKey(bucket, owner, id string) string {
	return fmt.Sprintf("%s/%s/%s", bucket, owner, id)
}

func bucketPrefix(bucket, owner string) string {
	return fmt.Sprintf("%s/%s/", bucket, owner)
}

func encodeName(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decodeName(s string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
