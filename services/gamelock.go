package services

import (
	"sort"
	"sync"
)

// GameLocks serializes writers per game. Every ledger mutation triggers a
// full resum of later-dated entries, so two writers racing on one game could
// both resum from a stale snapshot; operations on different games stay
// independent.
type GameLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewGameLocks() *GameLocks {
	return &GameLocks{
		locks: make(map[string]*sync.Mutex),
	}
}

func (g *GameLocks) lockFor(key string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	lock, ok := g.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[key] = lock
	}
	return lock
}

// Lock acquires the mutex for one game and returns its unlock function.
func (g *GameLocks) Lock(key string) func() {
	lock := g.lockFor(key)
	lock.Lock()
	return lock.Unlock
}

// LockAll acquires mutexes for several games in sorted key order, so a game
// completion touching a successor game cannot deadlock against another writer.
func (g *GameLocks) LockAll(keys ...string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if !seen[key] {
			seen[key] = true
			unique = append(unique, key)
		}
	}
	sort.Strings(unique)

	unlocks := make([]func(), 0, len(unique))
	for _, key := range unique {
		unlocks = append(unlocks, g.Lock(key))
	}

	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}
