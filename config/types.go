package config

type SimConfig struct {
	Capacity       int   `json:"capacity"`
	SyntheticCount int   `json:"synthetic_count"`
	Live           bool  `json:"live"`
	Seed           int64 `json:"seed"` // 0 seeds from the clock

	Quantum   int   `json:"quantum"`
	Frames    int   `json:"frames"`
	Reference []int `json:"reference"`

	SafetyPool   int `json:"safety_pool"`
	SafetyWindow int `json:"safety_window"`
	NeedScale    int `json:"need_scale"`

	CPUOverload     float64 `json:"cpu_overload"`
	ThrashingMemory int     `json:"thrashing_memory"`

	IntervalMS int    `json:"interval_ms"`
	LogLevel   string `json:"log_level"`

	ActiveWebhook string            `json:"active_webhook"`
	Webhooks      map[string]string `json:"webhooks"`
}
