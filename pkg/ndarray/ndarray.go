// Package ndarray 提供固定形状的多维数组容器
package ndarray

// Numeric 支持的元素类型
type Numeric interface {
	~int | ~int64 | ~float64
}

// Array3 三维数组（行优先连续存储）
type Array3[T Numeric] struct {
	d2, d3 int
	data   []T
}

// New3 创建三维数组，所有元素为零值
func New3[T Numeric](d1, d2, d3 int) *Array3[T] {
	return &Array3[T]{
		d2:   d2,
		d3:   d3,
		data: make([]T, d1*d2*d3),
	}
}

// At 读取元素。索引不做边界检查，形状在初始化时固定
func (a *Array3[T]) At(i, j, k int) T {
	return a.data[(i*a.d2+j)*a.d3+k]
}

// Set 写入元素
func (a *Array3[T]) Set(i, j, k int, v T) {
	a.data[(i*a.d2+j)*a.d3+k] = v
}

// Add 累加元素
func (a *Array3[T]) Add(i, j, k int, v T) {
	a.data[(i*a.d2+j)*a.d3+k] += v
}

// Reset 将所有元素置零
func (a *Array3[T]) Reset() {
	clear(a.data)
}

// CopyFrom 从同形状数组整体复制
func (a *Array3[T]) CopyFrom(src *Array3[T]) {
	copy(a.data, src.data)
}

// Clone 复制出一个新数组
func (a *Array3[T]) Clone() *Array3[T] {
	c := &Array3[T]{d2: a.d2, d3: a.d3, data: make([]T, len(a.data))}
	copy(c.data, a.data)
	return c
}

// Array4 四维数组（行优先连续存储）
type Array4[T Numeric] struct {
	d2, d3, d4 int
	data       []T
}

// New4 创建四维数组，所有元素为零值
func New4[T Numeric](d1, d2, d3, d4 int) *Array4[T] {
	return &Array4[T]{
		d2:   d2,
		d3:   d3,
		d4:   d4,
		data: make([]T, d1*d2*d3*d4),
	}
}

// At 读取元素
func (a *Array4[T]) At(i, j, k, l int) T {
	return a.data[((i*a.d2+j)*a.d3+k)*a.d4+l]
}

// Set 写入元素
func (a *Array4[T]) Set(i, j, k, l int, v T) {
	a.data[((i*a.d2+j)*a.d3+k)*a.d4+l] = v
}

// Add 累加元素
func (a *Array4[T]) Add(i, j, k, l int, v T) {
	a.data[((i*a.d2+j)*a.d3+k)*a.d4+l] += v
}

// Reset 将所有元素置零
func (a *Array4[T]) Reset() {
	clear(a.data)
}

// CopyFrom 从同形状数组整体复制
func (a *Array4[T]) CopyFrom(src *Array4[T]) {
	copy(a.data, src.data)
}

// Clone 复制出一个新数组
func (a *Array4[T]) Clone() *Array4[T] {
	c := &Array4[T]{d2: a.d2, d3: a.d3, d4: a.d4, data: make([]T, len(a.data))}
	copy(c.data, a.data)
	return c
}
