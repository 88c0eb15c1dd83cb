package winq

// Kind tags every WINQ node. The numbering is shared with persisted
// descriptions and must not be reordered.
type Kind int

const (
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindInt
	KindUInt
	KindDouble
	KindString
	KindColumn
	KindSchema
	KindColumnDef
	KindColumnConstraint
	KindExpression
	KindLiteralValue
	KindForeignKeyClause
	KindBindParameter
	KindRaiseFunction
	KindWindowDef
	KindFilter
	KindIndexedColumn
	KindTableConstraint
	KindCommonTableExpression
	KindQualifiedTableName
	KindOrderingTerm
	KindUpsertClause
	KindPragma
	KindJoinClause
	KindTableOrSubquery
	KindJoinConstraint
	KindSelectCore
	KindResultColumn
	KindFrameSpec
	KindAlterTableStatement
	KindAnalyzeStatement
	KindAttachStatement
	KindBeginStatement
	KindCommitStatement
	KindRollbackStatement
	KindSavepointStatement
	KindReleaseStatement
	KindCreateIndexStatement
	KindCreateTableStatement
	KindCreateTriggerStatement
	KindSelectStatement
	KindInsertStatement
	KindDeleteStatement
	KindUpdateStatement
	KindCreateViewStatement
	KindCreateVirtualTableStatement
	KindDetachStatement
	KindDropIndexStatement
	KindDropTableStatement
	KindDropTriggerStatement
	KindDropViewStatement
	KindPragmaStatement
	KindReindexStatement
	KindVacuumStatement
	KindExplainStatement
)

var kindNames = [...]string{
	KindInvalid:                     "Invalid",
	KindNull:                        "Null",
	KindBool:                        "Bool",
	KindInt:                         "Int",
	KindUInt:                        "UInt",
	KindDouble:                      "Double",
	KindString:                      "String",
	KindColumn:                      "Column",
	KindSchema:                      "Schema",
	KindColumnDef:                   "ColumnDef",
	KindColumnConstraint:            "ColumnConstraint",
	KindExpression:                  "Expression",
	KindLiteralValue:                "LiteralValue",
	KindForeignKeyClause:            "ForeignKeyClause",
	KindBindParameter:               "BindParameter",
	KindRaiseFunction:               "RaiseFunction",
	KindWindowDef:                   "WindowDef",
	KindFilter:                      "Filter",
	KindIndexedColumn:               "IndexedColumn",
	KindTableConstraint:             "TableConstraint",
	KindCommonTableExpression:       "CommonTableExpression",
	KindQualifiedTableName:          "QualifiedTableName",
	KindOrderingTerm:                "OrderingTerm",
	KindUpsertClause:                "UpsertClause",
	KindPragma:                      "Pragma",
	KindJoinClause:                  "JoinClause",
	KindTableOrSubquery:             "TableOrSubquery",
	KindJoinConstraint:              "JoinConstraint",
	KindSelectCore:                  "SelectCore",
	KindResultColumn:                "ResultColumn",
	KindFrameSpec:                   "FrameSpec",
	KindAlterTableStatement:         "AlterTableSTMT",
	KindAnalyzeStatement:            "AnalyzeSTMT",
	KindAttachStatement:             "AttachSTMT",
	KindBeginStatement:              "BeginSTMT",
	KindCommitStatement:             "CommitSTMT",
	KindRollbackStatement:           "RollbackSTMT",
	KindSavepointStatement:          "SavepointSTMT",
	KindReleaseStatement:            "ReleaseSTMT",
	KindCreateIndexStatement:        "CreateIndexSTMT",
	KindCreateTableStatement:        "CreateTableSTMT",
	KindCreateTriggerStatement:      "CreateTriggerSTMT",
	KindSelectStatement:             "SelectSTMT",
	KindInsertStatement:             "InsertSTMT",
	KindDeleteStatement:             "DeleteSTMT",
	KindUpdateStatement:             "UpdateSTMT",
	KindCreateViewStatement:         "CreateViewSTMT",
	KindCreateVirtualTableStatement: "CreateVirtualTableSTMT",
	KindDetachStatement:             "DetachSTMT",
	KindDropIndexStatement:          "DropIndexSTMT",
	KindDropTableStatement:          "DropTableSTMT",
	KindDropTriggerStatement:        "DropTriggerSTMT",
	KindDropViewStatement:           "DropViewSTMT",
	KindPragmaStatement:             "PragmaSTMT",
	KindReindexStatement:            "ReindexSTMT",
	KindVacuumStatement:             "VacuumSTMT",
	KindExplainStatement:            "ExplainSTMT",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindInvalid]
	}
	return kindNames[k]
}

// IsStatement reports whether the kind tags a complete SQL statement.
func (k Kind) IsStatement() bool {
	return k >= KindAlterTableStatement && k <= KindExplainStatement
}

// IsScalar reports whether the kind tags a plain scalar.
func (k Kind) IsScalar() bool {
	return k >= KindNull && k <= KindString
}
