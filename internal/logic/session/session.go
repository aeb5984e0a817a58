package session

import "sync"

// Prompt 会话当前等待的输入类型
type Prompt int

const (
	PromptNone          Prompt = iota
	PromptCreateWallets        // WALLET_COUNT
	PromptDistribute           // SOL_AMOUNT JITO_TIP STEPS
	PromptVolume               // MARKET_ID CYCLES DELAY_SEC JITO_TIP
	PromptCollect              // JITO_TIP
	PromptSimulate             // SOL_PRICE JITO_TIP EXECUTIONS W1 W2 ...
)

// Session 单个聊天的状态：只保存激活的提示类型。
// Run 锁保证同一聊天的请求串行执行完整流水线，不同聊天互不影响。
type Session struct {
	Run    sync.Mutex
	mu     sync.Mutex
	active Prompt
}

func (s *Session) Active() Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Session) SetActive(p Prompt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = p
}

func (s *Session) Clear() {
	s.SetActive(PromptNone)
}

// Manager 按 chat id 管理会话，首次访问时创建
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

func (m *Manager) Get(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	if !ok {
		s = &Session{}
		m.sessions[chatID] = s
	}
	return s
}
