package metainfo

import (
	"crypto/sha1"
	"fmt"

	g "github.com/anacrolix/generics"
	"github.com/anacrolix/missinggo/v2/panicif"
)

// A view of one piece of an Info. Obtained from Info.Piece.
type Piece struct {
	Info *Info
	i    PieceIndex
}

type PieceIndex = int

func (p Piece) String() string {
	return fmt.Sprintf("metainfo.Piece(Info.Name=%q, i=%v)", p.Info.Name, p.i)
}

func (p Piece) Index() int {
	return p.i
}

func (p Piece) inRange() bool {
	return p.i >= 0 && p.i < p.Info.NumPieces()
}

func (p Piece) Offset() int64 {
	return int64(p.i) * p.Info.PieceLength
}

// Every piece is PieceLength long except the last, which gets whatever is left over. Panics for
// pieces outside the table, or when the table doesn't agree with the total length.
func (p Piece) Length() int64 {
	panicif.False(p.inRange())
	length := min(p.Info.TotalLength()-p.Offset(), p.Info.PieceLength)
	panicif.LessThanOrEqual(length, 0)
	if p.i != p.Info.NumPieces()-1 {
		panicif.NotEq(length, p.Info.PieceLength)
	}
	return length
}

// The expected SHA-1 of the piece's data. Not Ok for indices outside the piece table.
func (p Piece) V1Hash() (ret g.Option[Hash]) {
	if !p.inRange() {
		return
	}
	copy(ret.Value[:], p.Info.Pieces[p.i*HashSize:(p.i+1)*HashSize])
	ret.Ok = true
	return
}

// Reports whether data hashes to the piece's entry in the piece table.
func (p Piece) Verify(data []byte) bool {
	h := p.V1Hash()
	return h.Ok && Hash(sha1.Sum(data)) == h.Value
}
