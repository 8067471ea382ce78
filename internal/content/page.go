package content

// PageSizes 为列表允许的每页条数。
var PageSizes = []int{3, 5, 10, 20}

// DefaultPageSize 是未指定时的每页条数。
const DefaultPageSize = 5

// Page 是基于已加载列表计算出的分页视图，不做持久化。
// 不变量：1 <= Current <= max(TotalPages(), 1)。
type Page struct {
	Size    int `json:"pageSize"`
	Current int `json:"currentPage"`
	Total   int `json:"totalItems"`
}

// ValidPageSize reports whether size is one of PageSizes.
func ValidPageSize(size int) bool {
	for _, candidate := range PageSizes {
		if candidate == size {
			return true
		}
	}
	return false
}

// NewPage 以第一页构造分页；非法的 size 回退到 DefaultPageSize。
func NewPage(size, total int) Page {
	if !ValidPageSize(size) {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return Page{Size: size, Current: 1, Total: total}
}

// TotalPages 返回 ceil(Total/Size)，列表为空时为 0。
func (p Page) TotalPages() int {
	if p.Size <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// WithSize 切换每页条数，并在当前页越界时回收到最后一页。
func (p Page) WithSize(size int) Page {
	if !ValidPageSize(size) {
		return p
	}
	p.Size = size
	return p.clamp()
}

// WithCurrent 跳转到指定页；越界请求被静默忽略。
func (p Page) WithCurrent(current int) Page {
	if current < 1 || current > p.TotalPages() {
		return p
	}
	p.Current = current
	return p
}

// WithTotal 在列表重新加载后更新条目总数。
func (p Page) WithTotal(total int) Page {
	if total < 0 {
		total = 0
	}
	p.Total = total
	return p.clamp()
}

// Reset 回到第一页。
func (p Page) Reset() Page {
	p.Current = 1
	return p
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool {
	return p.Current > 1
}

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool {
	return p.Current < p.TotalPages()
}

// Bounds 返回当前页在完整列表中的半开区间 [start, end)。
func (p Page) Bounds() (int, int) {
	if p.Size <= 0 || p.Total <= 0 {
		return 0, 0
	}
	current := p.Current
	if current < 1 {
		current = 1
	}
	start := (current - 1) * p.Size
	if start > p.Total {
		start = p.Total
	}
	end := start + p.Size
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

func (p Page) clamp() Page {
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	totalPages := p.TotalPages()
	switch {
	case totalPages == 0:
		p.Current = 1
	case p.Current > totalPages:
		p.Current = totalPages
	case p.Current < 1:
		p.Current = 1
	}
	return p
}

// Visible 返回 items 中属于当前页的切片。Page.Total 以 len(items) 为准。
func Visible[T any](items []T, page Page) []T {
	page = page.WithTotal(len(items))
	start, end := page.Bounds()
	return items[start:end]
}
