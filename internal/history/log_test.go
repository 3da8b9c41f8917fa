// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_AppendFillsIdentity(t *testing.T) {
	log := NewLog(0)
	e := log.Append(Entry{Kind: KindGeneration, Input: "reverse a string", Output: "def reverse(s): return s[::-1]", Detail: "python"})

	assert.NotEmpty(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
	require.Equal(t, 1, log.Len())
	assert.Equal(t, e, log.Entries()[0])
}

func TestLog_KeepsGivenIdentity(t *testing.T) {
	log := NewLog(0)
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := log.Append(Entry{ID: "fixed", Kind: KindChat, CreatedAt: at})

	assert.Equal(t, "fixed", e.ID)
	assert.Equal(t, at, e.CreatedAt)
}

func TestLog_Ordering(t *testing.T) {
	log := NewLog(0)
	for _, input := range []string{"a", "b", "c"} {
		log.Append(Entry{Kind: KindPrompt, Input: input})
	}

	var oldest, newest []string
	for _, e := range log.Entries() {
		oldest = append(oldest, e.Input)
	}
	for _, e := range log.Newest() {
		newest = append(newest, e.Input)
	}
	assert.Equal(t, []string{"a", "b", "c"}, oldest)
	assert.Equal(t, []string{"c", "b", "a"}, newest)
}

func TestLog_EntriesIsACopy(t *testing.T) {
	log := NewLog(0)
	log.Append(Entry{Kind: KindPrompt, Input: "original"})

	entries := log.Entries()
	entries[0].Input = "changed"
	assert.Equal(t, "original", log.Entries()[0].Input)
}

func TestLog_Filter(t *testing.T) {
	log := NewLog(0)
	log.Append(Entry{Kind: KindGeneration, Input: "g1"})
	log.Append(Entry{Kind: KindReview, Input: "r1"})
	log.Append(Entry{Kind: KindGeneration, Input: "g2"})

	gens := log.Filter(KindGeneration)
	require.Len(t, gens, 2)
	assert.Equal(t, "g1", gens[0].Input)
	assert.Equal(t, "g2", gens[1].Input)
	assert.Empty(t, log.Filter(KindAnalysis))
}

func TestLog_Capacity(t *testing.T) {
	log := NewLog(2)
	log.Append(Entry{Kind: KindPrompt, Input: "1"})
	log.Append(Entry{Kind: KindPrompt, Input: "2"})
	log.Append(Entry{Kind: KindPrompt, Input: "3"})

	entries := log.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "2", entries[0].Input)
	assert.Equal(t, "3", entries[1].Input)
}

func TestLog_OnAppend(t *testing.T) {
	log := NewLog(0)
	var seen []Entry
	log.OnAppend(func(e Entry) { seen = append(seen, e) })

	e := log.Append(Entry{Kind: KindChat, Input: "hi"})
	log.Load([]Entry{{ID: "old", Kind: KindChat}})

	require.Len(t, seen, 1)
	assert.Equal(t, e.ID, seen[0].ID)
	assert.Equal(t, 2, log.Len())
}

func TestLog_ConcurrentAppend(t *testing.T) {
	log := NewLog(0)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Append(Entry{Kind: KindPrompt})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, log.Len())
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Generation ")
	require.NoError(t, err)
	assert.Equal(t, KindGeneration, k)

	_, err = ParseKind("poem")
	assert.Error(t, err)
}
