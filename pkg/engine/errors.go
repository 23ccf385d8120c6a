// pkg/engine/errors.go
package engine

import "fmt"

// 错误分级：运行级致命 / 阶段级 / 实体级
// 运行级终止整次运行；阶段级把该阶段降级为空结果继续；实体级记录后继续迭代

// FatalError 运行级致命错误（认证失败、无可用账户档案等）
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// Fatalf 构造运行级致命错误
func Fatalf(format string, args ...interface{}) error {
	return &FatalError{Err: fmt.Errorf(format, args...)}
}

// StageError 阶段级错误，该阶段以空结果继续本次运行
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("阶段 %s 失败: %v", e.Stage, e.Err)
}
func (e *StageError) Unwrap() error { return e.Err }

// EntityError 实体级错误，记录后不中断其余实体的处理
type EntityError struct {
	EntityID string
	Err      error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("实体 %s 处理失败: %v", e.EntityID, e.Err)
}
func (e *EntityError) Unwrap() error { return e.Err }
