package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

const DefaultCompileCommand = "g++ {src} -o {exe}"

type ExecutorCfg struct {
	WorkspaceDir       string
	CompileCommand     string
	CompileTimeout     time.Duration
	MemoryPollInterval time.Duration
	OutputLimitBytes   int
	IOGracePeriod      time.Duration
	MaxConcurrent      int
}

func NewExecutorCfg() *ExecutorCfg {
	return &ExecutorCfg{
		WorkspaceDir:       stringEnv("WORKSPACE_DIR", filepath.Join(os.TempDir(), "judge-workspace")),
		CompileCommand:     stringEnv("COMPILE_COMMAND", DefaultCompileCommand),
		CompileTimeout:     time.Duration(intEnv("COMPILE_TIMEOUT_SEC", 30)) * time.Second,
		MemoryPollInterval: time.Duration(intEnv("MEMORY_POLL_INTERVAL_MS", 50)) * time.Millisecond,
		OutputLimitBytes:   intEnv("OUTPUT_LIMIT_KB", 16*1024) * 1024,
		IOGracePeriod:      time.Duration(intEnv("IO_GRACE_PERIOD_MS", 200)) * time.Millisecond,
		MaxConcurrent:      intEnv("MAX_CONCURRENT_SUBMISSIONS", runtime.NumCPU()),
	}
}
