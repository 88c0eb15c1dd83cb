package orm

import "strings"

// Virtual table modules.
const (
	FTS3 = "fts3"
	FTS4 = "fts4"
	FTS5 = "fts5"
)

// Tokenizers. The wcdb tokenizers must be registered on the engine before
// a table using them is created.
const (
	TokenizerSimple            = "simple"
	TokenizerPorter            = "porter"
	TokenizerUnicode61         = "unicode61"
	TokenizerTrigram           = "trigram"
	TokenizerOneOrBinary       = "wcdb_one_or_binary"
	TokenizerLegacyOneOrBinary = "WCDB"
	TokenizerVerbatim          = "wcdb_verbatim"
	TokenizerPinyin            = "wcdb_pinyin"
)

// Tokenizer parameters of the wcdb tokenizers.
const (
	TokenizerParameterNeedSymbol      = "need_symbol"
	TokenizerParameterSimplifyChinese = "chinese_traditional_to_simplified"
	TokenizerParameterSkipStemming    = "skip_stemming"
)

// FTSModule configures a full text search virtual table.
type FTSModule struct {
	Version             string
	Tokenizer           string
	TokenizerParameters []string
	// ExternalTable is the content table of an external content table.
	ExternalTable string
}

// TokenizeArgument returns the tokenize module argument. fts5 takes the
// tokenizer and its parameters as one quoted string.
func (m *FTSModule) TokenizeArgument() string {
	tokenizer := strings.Join(append([]string{m.Tokenizer}, m.TokenizerParameters...), " ")
	if strings.EqualFold(m.Version, FTS5) {
		tokenizer = "'" + strings.ReplaceAll(tokenizer, "'", "''") + "'"
	}
	return "tokenize = " + tokenizer
}

// ContentArgument returns the external content argument, empty when the
// table keeps its own content.
func (m *FTSModule) ContentArgument() string {
	if m.ExternalTable == "" {
		return ""
	}
	return "content='" + m.ExternalTable + "'"
}

// Configure makes binding a virtual table of the module. A module without
// version leaves binding untouched.
func (m *FTSModule) Configure(binding *Binding) {
	if m == nil || m.Version == "" {
		return
	}
	binding.ConfigVirtualModule(m.Version)
	if m.Tokenizer != "" {
		binding.ConfigVirtualModuleArgument(m.TokenizeArgument())
	}
	if content := m.ContentArgument(); content != "" {
		binding.ConfigVirtualModuleArgument(content)
	}
}
