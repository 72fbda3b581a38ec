package posts

import (
	"fmt"
	"sort"

	memdb "github.com/hashicorp/go-memdb"
)

const (
	postTable = "post"
	idIndex   = "id"
	userIndex = "user"
)

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		postTable: {
			Name: postTable,
			Indexes: map[string]*memdb.IndexSchema{
				idIndex: {
					Name:    idIndex,
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
				userIndex: {
					Name:    userIndex,
					Indexer: &memdb.IntFieldIndex{Field: "UserID"},
				},
			},
		},
	},
}

// Index answers lookups over a fixed set of posts. It is read-only once built.
type Index struct {
	db *memdb.MemDB
}

// NewIndex loads posts into an in-memory table. A later post replaces an
// earlier one with the same ID.
func NewIndex(posts []Post) (*Index, error) {
	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("posts index: %w", err)
	}

	txn := db.Txn(true)
	defer txn.Abort()
	for i := range posts {
		p := posts[i]
		if err := txn.Insert(postTable, &p); err != nil {
			return nil, fmt.Errorf("posts index: insert %d: %w", p.ID, err)
		}
	}
	txn.Commit()

	return &Index{db: db}, nil
}

func (x *Index) Get(id int) (Post, bool) {
	txn := x.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(postTable, idIndex, id)
	if err != nil || raw == nil {
		return Post{}, false
	}
	return *raw.(*Post), true
}

// ByUser returns the posts of one user ordered by ID.
func (x *Index) ByUser(userID int) []Post {
	txn := x.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(postTable, userIndex, userID)
	if err != nil {
		return nil
	}
	var out []Post
	for raw := it.Next(); raw != nil; raw = it.Next() {
		out = append(out, *raw.(*Post))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Users returns the distinct user IDs in ascending order.
func (x *Index) Users() []int {
	txn := x.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(postTable, userIndex)
	if err != nil {
		return nil
	}
	var users []int
	for raw := it.Next(); raw != nil; raw = it.Next() {
		uid := raw.(*Post).UserID
		if n := len(users); n == 0 || users[n-1] != uid {
			users = append(users, uid)
		}
	}
	return users
}

func (x *Index) Len() int {
	txn := x.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(postTable, idIndex)
	if err != nil {
		return 0
	}
	n := 0
	for raw := it.Next(); raw != nil; raw = it.Next() {
		n++
	}
	return n
}
