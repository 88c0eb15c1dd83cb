package winq

// Pragma names a PRAGMA.
type Pragma struct {
	node
	name string
}

// NewPragma creates a pragma fragment.
func NewPragma(name string) *Pragma {
	return &Pragma{node: node{kind: KindPragma}, name: name}
}

// Name returns the pragma name.
func (p *Pragma) Name() string {
	return p.name
}

// Description implements Identifier.
func (p *Pragma) Description() string {
	return p.name
}

func PragmaApplicationID() *Pragma { return NewPragma("application_id") }
func PragmaAutoVacuum() *Pragma { return NewPragma("auto_vacuum") }
func PragmaAutomaticIndex() *Pragma { return NewPragma("automatic_index") }
func PragmaBusyTimeout() *Pragma { return NewPragma("busy_timeout") }
func PragmaCacheSize() *Pragma { return NewPragma("cache_size") }
func PragmaCaseSensitiveLike() *Pragma { return NewPragma("case_sensitive_like") }
func PragmaCellSizeCheck() *Pragma { return NewPragma("cell_size_check") }
func PragmaCheckpointFullfsync() *Pragma { return NewPragma("checkpoint_fullfsync") }
func PragmaCollationList() *Pragma { return NewPragma("collation_list") }
func PragmaCompileOptions() *Pragma { return NewPragma("compile_options") }
func PragmaDataVersion() *Pragma { return NewPragma("data_version") }
func PragmaDatabaseList() *Pragma { return NewPragma("database_list") }
func PragmaDeferForeignKeys() *Pragma { return NewPragma("defer_foreign_keys") }
func PragmaEncoding() *Pragma { return NewPragma("encoding") }
func PragmaForeignKeyCheck() *Pragma { return NewPragma("foreign_key_check") }
func PragmaForeignKeyList() *Pragma { return NewPragma("foreign_key_list") }
func PragmaForeignKeys() *Pragma { return NewPragma("foreign_keys") }
func PragmaFreelistCount() *Pragma { return NewPragma("freelist_count") }
func PragmaFullfsync() *Pragma { return NewPragma("fullfsync") }
func PragmaFunctionList() *Pragma { return NewPragma("function_list") }
func PragmaIgnoreCheckConstraints() *Pragma { return NewPragma("ignore_check_constraints") }
func PragmaIncrementalVacuum() *Pragma { return NewPragma("incremental_vacuum") }
func PragmaIndexInfo() *Pragma { return NewPragma("index_info") }
func PragmaIndexList() *Pragma { return NewPragma("index_list") }
func PragmaIndexXinfo() *Pragma { return NewPragma("index_xinfo") }
func PragmaIntegrityCheck() *Pragma { return NewPragma("integrity_check") }
func PragmaJournalMode() *Pragma { return NewPragma("journal_mode") }
func PragmaJournalSizeLimit() *Pragma { return NewPragma("journal_size_limit") }
func PragmaLegacyAlterTable() *Pragma { return NewPragma("legacy_alter_table") }
func PragmaLockingMode() *Pragma { return NewPragma("locking_mode") }
func PragmaMaxPageCount() *Pragma { return NewPragma("max_page_count") }
func PragmaMmapSize() *Pragma { return NewPragma("mmap_size") }
func PragmaModuleList() *Pragma { return NewPragma("module_list") }
func PragmaOptimize() *Pragma { return NewPragma("optimize") }
func PragmaPageCount() *Pragma { return NewPragma("page_count") }
func PragmaPageSize() *Pragma { return NewPragma("page_size") }
func PragmaPragmaList() *Pragma { return NewPragma("pragma_list") }
func PragmaQueryOnly() *Pragma { return NewPragma("query_only") }
func PragmaQuickCheck() *Pragma { return NewPragma("quick_check") }
func PragmaReadUncommitted() *Pragma { return NewPragma("read_uncommitted") }
func PragmaRecursiveTriggers() *Pragma { return NewPragma("recursive_triggers") }
func PragmaReverseUnorderedSelects() *Pragma {
	return NewPragma("reverse_unordered_selects")
}
func PragmaSecureDelete() *Pragma { return NewPragma("secure_delete") }
func PragmaShrinkMemory() *Pragma { return NewPragma("shrink_memory") }
func PragmaSoftHeapLimit() *Pragma { return NewPragma("soft_heap_limit") }
func PragmaSynchronous() *Pragma { return NewPragma("synchronous") }
func PragmaTableInfo() *Pragma { return NewPragma("table_info") }
func PragmaTableXinfo() *Pragma { return NewPragma("table_xinfo") }
func PragmaTempStore() *Pragma { return NewPragma("temp_store") }
func PragmaThreads() *Pragma { return NewPragma("threads") }
func PragmaUserVersion() *Pragma { return NewPragma("user_version") }
func PragmaWalAutocheckpoint() *Pragma { return NewPragma("wal_autocheckpoint") }
func PragmaWalCheckpoint() *Pragma { return NewPragma("wal_checkpoint") }
