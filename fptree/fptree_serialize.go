package fptree

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	U "fpminer/util"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// TreeNode is the serialized form of one tree node.
type TreeNode struct {
	Id     int    `json:"id"`
	Item   string `json:"it"`
	Count  int    `json:"ct"`
	Parent int    `json:"pa"`
}

type nodeQueue struct {
	queue []int
}

func (c *nodeQueue) Enqueue(n int) {
	c.queue = append(c.queue, n)
}

func (c *nodeQueue) DequeFront() (int, error) {
	if len(c.queue) == 0 {
		return nilIdx, fmt.Errorf("pop error: queue is empty")
	}
	n := c.queue[0]
	c.queue = c.queue[1:]
	return n, nil
}

func (c *nodeQueue) Size() int {
	return len(c.queue)
}

func (t *Tree) sortedChildren(idx int) []int {
	items := make([]string, 0, len(t.nodes[idx].NextMap))
	for itm := range t.nodes[idx].NextMap {
		items = append(items, itm)
	}
	sort.Strings(items)
	kids := make([]int, 0, len(items))
	for _, itm := range items {
		kids = append(kids, t.nodes[idx].NextMap[itm])
	}
	return kids
}

// Serialize lists the tree breadth first, root first, as json lines.
// Children are visited in item order.
func (t *Tree) Serialize() ([]string, error) {
	nodeListString := make([]string, 0, len(t.nodes))
	q := &nodeQueue{queue: make([]int, 0)}
	q.Enqueue(rootIdx)
	for q.Size() > 0 {
		idx, err := q.DequeFront()
		if err != nil {
			return nil, err
		}
		n := t.nodes[idx]
		bytes, err := json.Marshal(TreeNode{Id: idx, Item: n.Item, Count: n.Counter, Parent: n.ParentNode})
		if err != nil {
			log.WithError(err).Errorf("unable to marshal node :%d", idx)
			return nil, errors.Wrapf(err, "marshal node %d", idx)
		}
		nodeListString = append(nodeListString, string(bytes))
		for _, kid := range t.sortedChildren(idx) {
			q.Enqueue(kid)
		}
	}
	log.Debugf("Serialized tree nodes :%d", len(nodeListString))
	return nodeListString, nil
}

// Deserialize rebuilds a tree from Serialize output. Parents must be
// listed before their children. Header supports are recomputed from the
// same-item chains.
func Deserialize(data []string) (*Tree, error) {
	if len(data) == 0 {
		return nil, errors.New("no nodes to deserialize")
	}
	t := initTree()
	idMap := make(map[int]int, len(data))
	for lineNo, line := range data {
		var tn TreeNode
		if err := json.Unmarshal([]byte(line), &tn); err != nil {
			log.WithFields(log.Fields{"line": line, "err": err}).Error("Read failed")
			return nil, errors.Wrapf(err, "line %d", lineNo+1)
		}
		if lineNo == 0 {
			if tn.Parent != nilIdx {
				return nil, errors.Errorf("first node %d is not a root", tn.Id)
			}
			idMap[tn.Id] = rootIdx
			continue
		}
		if tn.Item == RootItem {
			return nil, errors.Errorf("node %d has no item", tn.Id)
		}
		if tn.Count <= 0 {
			return nil, errors.Errorf("node %d has count %d", tn.Id, tn.Count)
		}
		parent, ok := idMap[tn.Parent]
		if !ok {
			return nil, errors.Errorf("node %d refers to unknown parent %d", tn.Id, tn.Parent)
		}
		if _, dup := t.nodes[parent].NextMap[tn.Item]; dup {
			return nil, errors.Errorf("node %d repeats item %s under parent %d", tn.Id, tn.Item, tn.Parent)
		}
		idx := len(t.nodes)
		t.nodes = append(t.nodes, initNode(tn.Item, tn.Count, parent))
		t.nodes[parent].NextMap[tn.Item] = idx
		idMap[tn.Id] = idx

		if _, ok := t.header[tn.Item]; !ok {
			t.header[tn.Item] = &HeaderEntry{Head: nilIdx, Tail: nilIdx}
		}
		t.header[tn.Item].Support += tn.Count
		t.updateHeaderTable(idx)
	}
	for idx, itm := range U.SortOnPriorityTable(t.supportTable(), false) {
		t.priority[itm] = idx
	}
	log.Debugf("Deserialized tree nodes :%d items :%d", len(t.nodes), len(t.header))
	return t, nil
}

func WriteTreeToFile(fname string, nodes []string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrapf(err, "create tree file %s", fname)
	}
	defer file.Close()
	w := bufio.NewWriter(file)

	for _, nd := range nodes {
		if _, err := w.WriteString(fmt.Sprintf("%s\n", nd)); err != nil {
			log.WithFields(log.Fields{"line": nd, "err": err}).Error("Unable to write to file.")
			return err
		}
	}
	return w.Flush()
}

func SerializeTreeToFile(tr *Tree, fname string) error {
	nodeStrings, err := tr.Serialize()
	if err != nil {
		log.Error("Unable to serialize tree")
		return err
	}
	if err := WriteTreeToFile(fname, nodeStrings); err != nil {
		log.Error("Unable to write serialized tree to file")
		return err
	}
	return nil
}

func ReadTreeFromFile(fname string) (*Tree, error) {
	file, err := os.Open(fname)
	if err != nil {
		return nil, errors.Wrapf(err, "open tree file %s", fname)
	}
	defer file.Close()

	nodes := make([]string, 0)
	scanner := CreateScannerFromReader(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			nodes = append(nodes, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read tree file %s", fname)
	}
	log.Debugf("Number of nodes to process:%d", len(nodes))
	return Deserialize(nodes)
}

// Display writes the tree as an indented outline, one node per line.
func (t *Tree) Display(w io.Writer) error {
	return t.display(w, rootIdx, 1)
}

func (t *Tree) display(w io.Writer, idx, depth int) error {
	n := t.nodes[idx]
	name := n.Item
	if idx == rootIdx {
		name = "root"
	}
	if _, err := fmt.Fprintf(w, "%s | %s : %d\n", strings.Repeat("---", depth), name, n.Counter); err != nil {
		return err
	}
	for _, kid := range t.sortedChildren(idx) {
		if err := t.display(w, kid, depth+1); err != nil {
			return err
		}
	}
	return nil
}
