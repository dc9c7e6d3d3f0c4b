package store

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"

	"fpminer/filestore"
	fp "fpminer/fptree"

	cache "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ItemsetStore keeps mined itemsets keyed by dataset and thresholds, in
// an lru cache backed by a FileManager.
type ItemsetStore struct {
	fileManager   filestore.FileManager
	itemsetsCache *cache.Cache
}

func New(cacheSize int, fileManager filestore.FileManager) (*ItemsetStore, error) {
	itemsetsCache, err := cache.New(cacheSize)
	if err != nil {
		return nil, err
	}
	return &ItemsetStore{
		fileManager:   fileManager,
		itemsetsCache: itemsetsCache,
	}, nil
}

// Key fingerprints a transaction set together with the miner settings.
// It does not depend on the order transactions were added in.
func Key(ts *fp.TransactionSet, m *fp.Miner) string {
	lines := make([]string, 0, ts.Len())
	ts.Each(func(items []string, weight int) {
		lines = append(lines, fmt.Sprintf("%s:%d", strings.Join(items, ","), weight))
	})
	sort.Strings(lines)

	h := sha256.New()
	fmt.Fprintf(h, "%d|%d|%d\n", m.TreeSupport, m.MineSupport, m.MaxLength)
	for _, l := range lines {
		fmt.Fprintln(h, l)
	}
	return hex.EncodeToString(h.Sum(nil))[:32]
}

// Get looks key up in the cache and then on file. The bool is false when
// neither holds it.
func (s *ItemsetStore) Get(key string) ([]fp.Itemset, bool, error) {
	logCtx := log.WithField("key", key)
	if v, ok := s.itemsetsCache.Get(key); ok {
		logCtx.Debug("[ItemsetStore] cache hit")
		return copyItemsets(v.([]fp.Itemset)), true, nil
	}

	dir, name := s.fileManager.GetResultsFilePathAndName(key)
	rc, err := s.fileManager.Get(dir, name)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, false, nil
		}
		logCtx.WithError(err).Error("Failed to open itemsets file")
		return nil, false, err
	}
	defer rc.Close()

	itemsets, err := fp.ReadItemsets(rc)
	if err != nil {
		logCtx.WithError(err).Error("Failed to read itemsets file")
		return nil, false, err
	}
	s.itemsetsCache.Add(key, copyItemsets(itemsets))
	logCtx.Debug("[ItemsetStore] loaded from file")
	return itemsets, true, nil
}

// Put writes itemsets to file and caches them.
func (s *ItemsetStore) Put(key string, itemsets []fp.Itemset) error {
	var buf bytes.Buffer
	if err := fp.WriteItemsets(&buf, itemsets); err != nil {
		return err
	}
	dir, name := s.fileManager.GetResultsFilePathAndName(key)
	if err := s.fileManager.Create(dir, name, bytes.NewReader(buf.Bytes())); err != nil {
		log.WithError(err).WithField("key", key).Error("Failed to write itemsets file")
		return err
	}
	s.itemsetsCache.Add(key, copyItemsets(itemsets))
	return nil
}

// copyItemsets keeps callers from mutating what the cache holds.
func copyItemsets(itemsets []fp.Itemset) []fp.Itemset {
	if itemsets == nil {
		return nil
	}
	res := make([]fp.Itemset, len(itemsets))
	for i, fi := range itemsets {
		res[i] = fp.Itemset{Items: append([]string(nil), fi.Items...), Support: fi.Support}
	}
	return res
}

// PutTree stores the serialized fp-tree next to the results of key.
func (s *ItemsetStore) PutTree(key string, tr *fp.Tree) error {
	nodes, err := tr.Serialize()
	if err != nil {
		return err
	}
	dir, name := s.fileManager.GetTreeFilePathAndName(key)
	content := strings.Join(nodes, "\n") + "\n"
	return s.fileManager.Create(dir, name, strings.NewReader(content))
}

// Mine returns the stored itemsets for ts and m, mining and storing them
// on a miss. The bool reports whether the result was already stored.
func (s *ItemsetStore) Mine(ts *fp.TransactionSet, m *fp.Miner) ([]fp.Itemset, bool, error) {
	key := Key(ts, m)
	itemsets, ok, err := s.Get(key)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return itemsets, true, nil
	}
	itemsets = m.Mine(ts)
	if err := s.Put(key, itemsets); err != nil {
		return nil, false, err
	}
	return itemsets, false, nil
}
