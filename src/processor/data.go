// data.go
package processor

import (
	"sync"

	"github.com/go-gota/gota/dataframe"
)

// TripFrame 封装骑行数据DataFrame并提供线程安全访问
// 监控模式下加载协程与报告协程会共享同一份数据
type TripFrame struct {
	df dataframe.DataFrame
	mu sync.RWMutex
}

func (t *TripFrame) GetDF() dataframe.DataFrame {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.df
}

func (t *TripFrame) SetDF(df dataframe.DataFrame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.df = df
}
