// Package winq is a composable SQL statement algebra.
//
// Every fragment (columns, expressions, ordering terms, constraints, ...) and
// every statement is a node tagged with a Kind. Nodes are built with fluent
// configurators that return the node itself, and serialize to SQL text with
// Description. Construction never fails and never performs I/O; a malformed
// composition surfaces when the statement is prepared.
//
// Example:
//
//	id := winq.NewColumn("id")
//	content := winq.NewColumn("content")
//	statement := winq.NewStatementSelect().
//		Select(id, content).
//		From("message").
//		Where(id.Gt(10)).
//		OrderBy(content.Order(winq.OrderAsc)).
//		Limit(1)
//
//	// SELECT id, content FROM message WHERE id > 10 ORDER BY content ASC LIMIT 1
//	fmt.Println(statement.Description())
package winq
