package wcdb_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing/fstest"

	wcdb "github.com/Tencent/wcdb-sub001"
	"github.com/Tencent/wcdb-sub001/orm"
	"github.com/Tencent/wcdb-sub001/winq"
)

type Message struct {
	ID     int64  `wcdb:"id,primary,autoincrement"`
	Sender string `wcdb:"sender,index"`
	SentAt int64  `wcdb:"sent_at"`
}

var messageBinding = orm.MustReflect[Message]()

func tempDatabase(name string) (*wcdb.Database, func()) {
	dir, err := os.MkdirTemp("", "wcdb_example")
	if err != nil {
		log.Fatal(err)
	}
	db, err := wcdb.Open(filepath.Join(dir, name))
	if err != nil {
		log.Fatal(err)
	}
	return db, func() {
		_ = db.Close(nil)
		_ = os.RemoveAll(dir)
	}
}

// ExampleGetTable shows the ORM operations of a table.
func ExampleGetTable() {
	ctx := context.Background()
	db, cleanup := tempDatabase("messages.db")
	defer cleanup()

	table := wcdb.GetTable(db, "messages", messageBinding)
	if err := table.Create(ctx); err != nil {
		log.Fatal(err)
	}

	first := &Message{Sender: "alice", SentAt: 100}
	if err := table.InsertObjects(ctx, []*Message{first, {Sender: "bob", SentAt: 200}}); err != nil {
		log.Fatal(err)
	}
	fmt.Println("first id:", first.ID)

	messages, err := table.GetAllObjects(ctx,
		wcdb.Where(messageBinding.Field("sent_at").Gt(150)),
		wcdb.OrderBy(messageBinding.Field("sent_at").Order(winq.OrderDesc)))
	if err != nil {
		log.Fatal(err)
	}
	for _, m := range messages {
		fmt.Println(m.ID, m.Sender, m.SentAt)
	}

	// Output:
	// first id: 1
	// 2 bob 200
}

// ExampleDatabase_RunTransaction shows that a failed transaction leaves no
// rows behind.
func ExampleDatabase_RunTransaction() {
	ctx := context.Background()
	db, cleanup := tempDatabase("transaction.db")
	defer cleanup()

	table := wcdb.GetTable(db, "messages", messageBinding)
	if err := table.Create(ctx); err != nil {
		log.Fatal(err)
	}

	err := db.RunTransaction(ctx, func(ctx context.Context, h *wcdb.Handle) (bool, error) {
		if err := wcdb.InsertObject(ctx, h, &Message{ID: 1, Sender: "alice"}, messageBinding.AllBindingFields(), "messages"); err != nil {
			return false, err
		}
		return true, wcdb.InsertObject(ctx, h, &Message{ID: 1, Sender: "bob"}, messageBinding.AllBindingFields(), "messages")
	})
	fmt.Println("primary key conflict:", errors.Is(err, wcdb.ErrConstraintPrimaryKey))

	count, err := db.GetValueFromSQL(ctx, "SELECT count(*) FROM messages")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("rows:", count.Int())

	// Output:
	// primary key conflict: true
	// rows: 0
}

// ExampleNewInsert shows a chain call and the statement it builds.
func ExampleNewInsert() {
	ctx := context.Background()
	db, cleanup := tempDatabase("chain.db")
	defer cleanup()

	if err := db.CreateTable(ctx, "messages", messageBinding); err != nil {
		log.Fatal(err)
	}

	insert := wcdb.NewInsert[Message](db).
		OrReplace().
		IntoTable("messages").
		OnFields(messageBinding.AllBindingFields()...).
		Value(&Message{Sender: "carol", SentAt: 7})
	fmt.Println(insert.Statement().Description())
	if err := insert.Execute(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println("changes:", insert.Changes())

	// Output:
	// INSERT OR REPLACE INTO messages(id, sender, sent_at) VALUES(?1, ?2, ?3)
	// changes: 1
}

// ExampleDatabaseBuilder shows seeding a database from files.
func ExampleDatabaseBuilder() {
	ctx := context.Background()
	dir, err := os.MkdirTemp("", "wcdb_example")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(dir)

	seeds := fstest.MapFS{
		"users.csv": {Data: []byte("id,name\n1,alice\n2,bob\n")},
	}
	db, err := wcdb.NewBuilder(filepath.Join(dir, "seeded.db")).AddFS(seeds).Open(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close(nil)

	rows, err := db.GetValuesFromSQL(ctx, "SELECT id, name FROM users ORDER BY id")
	if err != nil {
		log.Fatal(err)
	}
	for _, row := range rows {
		fmt.Println(row[0].Int(), row[1].Text())
	}

	// Output:
	// 1 alice
	// 2 bob
}
