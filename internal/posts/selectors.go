package posts

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/on-the-ground/effect_ive_store/selector"
)

// Fingerprint hashes the content of posts. Equal slices hash alike.
func Fingerprint(posts []Post) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeInt := func(n int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(n))
		_, _ = d.Write(buf[:])
	}
	writeInt(len(posts))
	for _, p := range posts {
		writeInt(p.ID)
		writeInt(p.UserID)
		writeInt(len(p.Title))
		_, _ = d.WriteString(p.Title)
		writeInt(len(p.Body))
		_, _ = d.WriteString(p.Body)
	}
	return d.Sum64()
}

func stateKey(s State) uint64 { return Fingerprint(s.Posts) }

func SelectPosts(s State) []Post { return s.Posts }

// SelectIndex builds an Index for the posts in s. Indexes are shared between
// callers and must not be modified.
var SelectIndex = selector.NewKeyed(stateKey, func(s State) *Index {
	idx, err := NewIndex(s.Posts)
	if err != nil {
		// the schema is static, so only a programming error gets here
		panic(err)
	}
	return idx
}, 8)

// SelectUserIDs returns the distinct authors in ascending order.
var SelectUserIDs = selector.NewKeyed(stateKey, func(s State) []int {
	return SelectIndex(s).Users()
}, 8)

// SelectLatest returns the post with the highest ID.
var SelectLatest = selector.NewKeyedPair(stateKey, func(s State) (Post, bool) {
	if len(s.Posts) == 0 {
		return Post{}, false
	}
	latest := s.Posts[0]
	for _, p := range s.Posts[1:] {
		if p.ID > latest.ID {
			latest = p
		}
	}
	return latest, true
}, 8)

// SelectByUser returns the posts written by userID.
func SelectByUser(s State, userID int) []Post {
	return SelectIndex(s).ByUser(userID)
}
