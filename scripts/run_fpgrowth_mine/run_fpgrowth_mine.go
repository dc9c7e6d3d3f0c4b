package main

// Mine frequent itemsets from a transactions file with FP-growth.

// Sample usage in terminal.
// go run run_fpgrowth_mine.go --input_file=trans.txt --output_file=itemsets.txt --tree_support=2 --mine_support=2

import (
	"flag"
	"os"

	C "fpminer/config"
	"fpminer/filestore"
	fp "fpminer/fptree"
	"fpminer/store"

	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
)

var inputFileFlag = flag.String("input_file", "",
	"Transactions, one per line: json {\"rp\":[items],\"w\":weight} or items separated by spaces/commas with optional :weight.")
var outputFileFlag = flag.String("output_file", "", "Itemsets written to file with each line a JSON. Stdout when empty.")
var treeFileFlag = flag.String("tree_file", "", "Write the serialized fp-tree to this file.")
var displayTreeFlag = flag.Bool("display_tree", false, "Print the fp-tree outline to stdout.")
var useCacheFlag = flag.Bool("use_cache", false, "Reuse results stored under data_dir.")
var sampleFlag = flag.Bool("sample", false, "Mine the built-in nine transaction sample instead of input_file.")

func main() {
	configFilePath, flagConf := C.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := C.InitFromFlags(flag.CommandLine, *configFilePath, flagConf); err != nil {
		log.WithError(err).Fatal("Failed to initialize config.")
	}
	conf := C.GetConfig()

	runId := xid.New().String()
	logCtx := log.WithFields(log.Fields{
		"run_id":       runId,
		"input_file":   *inputFileFlag,
		"tree_support": conf.TreeSupport,
		"mine_support": conf.MineSupport,
	})

	var ts *fp.TransactionSet
	var err error
	if *sampleFlag {
		ts = fp.SampleTransactions()
	} else {
		if *inputFileFlag == "" {
			logCtx.Fatal("input_file is required.")
		}
		ts, err = fp.ReadTransactionsFromFile(*inputFileFlag)
		if err != nil {
			logCtx.WithError(err).Fatal("Failed to read transactions.")
		}
	}
	logCtx.WithFields(log.Fields{"distinct": ts.Len(), "total": ts.TotalWeight()}).Info("Read transactions.")

	miner := fp.NewMiner(conf.TreeSupport, conf.MineSupport)
	miner.MaxLength = conf.MaxLength

	tr, treeOk := fp.BuildTree(ts, conf.TreeSupport)
	if !treeOk {
		logCtx.Info("No frequent items, tree is empty.")
	}
	if treeOk && *displayTreeFlag {
		if err := tr.Display(os.Stdout); err != nil {
			logCtx.WithError(err).Fatal("Failed to display tree.")
		}
	}
	if treeOk && *treeFileFlag != "" {
		if err := fp.SerializeTreeToFile(tr, *treeFileFlag); err != nil {
			logCtx.WithError(err).Fatal("Failed to write tree.")
		}
	}

	itemsets := make([]fp.Itemset, 0)
	if *useCacheFlag {
		itemsetStore, err := store.New(conf.CacheSize, filestore.NewDiskFileManager(conf.DataDir))
		if err != nil {
			logCtx.WithError(err).Fatal("Failed to create itemset store.")
		}
		var cached bool
		itemsets, cached, err = itemsetStore.Mine(ts, miner)
		if err != nil {
			logCtx.WithError(err).Fatal("Failed to mine through store.")
		}
		if !cached && treeOk {
			if err := itemsetStore.PutTree(store.Key(ts, miner), tr); err != nil {
				logCtx.WithError(err).Error("Failed to store tree.")
			}
		}
		logCtx.WithField("cached", cached).Info("Itemsets from store.")
	} else if treeOk {
		itemsets = miner.MineTree(tr, itemsets)
	}

	mined := len(itemsets)
	itemsets = fp.TopK(itemsets, conf.TopK)

	if *outputFileFlag == "" {
		err = fp.WriteItemsets(os.Stdout, itemsets)
	} else {
		err = fp.WriteItemsetsToFile(*outputFileFlag, itemsets)
	}
	if err != nil {
		logCtx.WithError(err).Fatal("Failed to write itemsets.")
	}
	logCtx.WithFields(log.Fields{"mined": mined, "written": len(itemsets)}).Info("Successfully mined itemsets.")
}
