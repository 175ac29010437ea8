package decoder

// Filter is a bit-mask restricting which chain nodes survive Apply.
type Filter uint16

const (
	// FilterAll keeps everything.
	FilterAll Filter = 0
	// FilterDecoded keeps only nodes whose coding produced data bits.
	FilterDecoded Filter = 1
	// FilterNoError keeps only nodes decoded without rule violations.
	FilterNoError Filter = 2
	// FilterDedup folds consecutive identical results into the first
	// occurrence, counting repeats.
	FilterDedup Filter = 4
	// FilterTri, FilterTrn and FilterMan restrict the kept codings; when
	// any of the three is set, the unset ones are dropped.
	FilterTri Filter = 8
	FilterTrn Filter = 16
	FilterMan Filter = 32
)

// Apply walks the chain and unlinks the nodes rejected by filter,
// returning the new head. Dedup rewires in place and increments the kept
// node's repeat count.
func Apply(head *Decoder, filter Filter) *Decoder {
	prev := head
	cur := head

	for cur != nil {
		cur.repeats = 0

		keep := true

		if filter&FilterDecoded != 0 {
			if !cur.DataDecoded() || cur.data == nil || cur.data.NbBits() == 0 {
				keep = false
			}
		}

		if filter&FilterNoError != 0 && cur.nbErrors > 0 {
			keep = false
		}

		if filter&FilterDedup != 0 && cur != prev && cur.kind == prev.kind {
			if p1, p2 := cur.data, prev.data; p1 != nil && p2 != nil && p1.Cmp(p2) == 0 {
				keep = false
				prev.repeats++
			}
		}

		if filter&(FilterTri|FilterTrn|FilterMan) != 0 {
			if filter&FilterTri == 0 && cur.kind == KindTribit {
				keep = false
			}
			if filter&FilterTrn == 0 && cur.kind == KindTribitInv {
				keep = false
			}
			if filter&FilterMan == 0 && cur.kind == KindManchester {
				keep = false
			}
		}

		if keep {
			prev = cur
			cur = cur.next
			continue
		}

		removed := cur
		if cur == head {
			head = cur.next
			prev = head
			cur = head
		} else {
			cur = cur.next
			prev.next = cur
		}
		removed.next = nil
	}

	return head
}
