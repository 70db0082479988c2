package handlers

import (
	"context"
	"sync"

	"github.com/Delta-in-hub/FuseLLM/internal/llmport"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

// fakeLLM is a canned llmport.Port that records the last call and signals
// done once Chat returns, so async-bridge tests can wait deterministically
// instead of sleeping.
type fakeLLM struct {
	mu           sync.Mutex
	reply        string
	err          error
	lastModel    string
	lastMessages []llmport.Message
	calls        int
	done         chan struct{}
}

func newFakeLLM(reply string, err error) *fakeLLM {
	return &fakeLLM{reply: reply, err: err, done: make(chan struct{}, 16)}
}

func (f *fakeLLM) Chat(_ context.Context, cfg state.EffectiveConfig, msgs []llmport.Message) (string, error) {
	f.mu.Lock()
	f.lastModel = cfg.Model
	f.lastMessages = msgs
	f.calls++
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.reply, f.err
}

// fakeSearch is a canned searchport.Port recording calls and their args.
type fakeSearch struct {
	mu             sync.Mutex
	createErr      error
	deleteErr      error
	addErr         error
	removeErr      error
	queryResult    string
	queryErr       error
	lastIndex      string
	lastName       string
	lastQueryText  string
	createCalls    int
	deleteCalls    int
	addCalls       int
	removeCalls    int
	queryCalls     int
}

func (f *fakeSearch) CreateIndex(_ context.Context, index string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIndex = index
	f.createCalls++
	return f.createErr
}

func (f *fakeSearch) DeleteIndex(_ context.Context, index string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIndex = index
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeSearch) AddDocument(_ context.Context, index, name, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIndex, f.lastName = index, name
	f.addCalls++
	return f.addErr
}

func (f *fakeSearch) RemoveDocument(_ context.Context, index, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIndex, f.lastName = index, name
	f.removeCalls++
	return f.removeErr
}

func (f *fakeSearch) Query(_ context.Context, index, text string, _ int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIndex, f.lastQueryText = index, text
	f.queryCalls++
	return f.queryResult, f.queryErr
}
