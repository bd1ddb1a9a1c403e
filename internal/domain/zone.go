package domain

// Zone is the upstream snapshot of one playback zone, as last reported.
type Zone struct {
	ZoneID              string        `json:"zone_id"`
	DisplayName         string        `json:"display_name"`
	State               string        `json:"state,omitempty"`
	Outputs             []Output      `json:"outputs"`
	NowPlaying          *NowPlaying   `json:"now_playing,omitempty"`
	Settings            *ZoneSettings `json:"settings,omitempty"`
	IsPreviousAllowed   bool          `json:"is_previous_allowed"`
	IsNextAllowed       bool          `json:"is_next_allowed"`
	IsPauseAllowed      bool          `json:"is_pause_allowed"`
	IsPlayAllowed       bool          `json:"is_play_allowed"`
	IsSeekAllowed       bool          `json:"is_seek_allowed"`
	QueueItemsRemaining int           `json:"queue_items_remaining"`
	QueueTimeRemaining  int           `json:"queue_time_remaining"`

	// Timestamp is stamped in epoch milliseconds when the zone is sent to clients.
	Timestamp int64 `json:"timestamp,omitempty"`
}

type Output struct {
	OutputID       string          `json:"output_id"`
	ZoneID         string          `json:"zone_id"`
	DisplayName    string          `json:"display_name"`
	State          string          `json:"state,omitempty"`
	Volume         *Volume         `json:"volume,omitempty"`
	SourceControls []SourceControl `json:"source_controls,omitempty"`
	SleepTimer     *SleepTimerView `json:"sleep_timer,omitempty"`
}

type Volume struct {
	Type    string  `json:"type"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Value   float64 `json:"value"`
	Step    float64 `json:"step"`
	IsMuted bool    `json:"is_muted"`
}

type SourceControl struct {
	ControlKey      string `json:"control_key"`
	DisplayName     string `json:"display_name"`
	Status          string `json:"status"`
	SupportsStandby bool   `json:"supports_standby"`
}

type ZoneSettings struct {
	Loop      string `json:"loop"`
	Shuffle   bool   `json:"shuffle"`
	AutoRadio bool   `json:"auto_radio"`
}

type NowPlaying struct {
	SeekPosition *float64  `json:"seek_position"`
	Length       int       `json:"length,omitempty"`
	ImageKey     string    `json:"image_key,omitempty"`
	OneLine      OneLine   `json:"one_line"`
	TwoLine      TwoLine   `json:"two_line"`
	ThreeLine    ThreeLine `json:"three_line"`
}

type OneLine struct {
	Line1 string `json:"line1"`
}

type TwoLine struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
}

type ThreeLine struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2,omitempty"`
	Line3 string `json:"line3,omitempty"`
}

// DisplayLines lists every line across the three display variants.
func (np *NowPlaying) DisplayLines() []string {
	return []string{
		np.OneLine.Line1,
		np.TwoLine.Line1, np.TwoLine.Line2,
		np.ThreeLine.Line1, np.ThreeLine.Line2, np.ThreeLine.Line3,
	}
}

// Seek returns the seek position, treating an unknown position as zero.
func (np *NowPlaying) Seek() float64 {
	if np == nil || np.SeekPosition == nil {
		return 0
	}
	return *np.SeekPosition
}

// Clone returns a deep copy so callers can decorate a zone without
// touching the stored snapshot.
func (z Zone) Clone() Zone {
	out := z
	if z.Outputs != nil {
		out.Outputs = make([]Output, len(z.Outputs))
		for i, o := range z.Outputs {
			out.Outputs[i] = o.clone()
		}
	}
	if z.NowPlaying != nil {
		np := *z.NowPlaying
		if np.SeekPosition != nil {
			seek := *np.SeekPosition
			np.SeekPosition = &seek
		}
		out.NowPlaying = &np
	}
	if z.Settings != nil {
		s := *z.Settings
		out.Settings = &s
	}
	return out
}

func (o Output) clone() Output {
	out := o
	if o.Volume != nil {
		v := *o.Volume
		out.Volume = &v
	}
	if o.SourceControls != nil {
		out.SourceControls = append([]SourceControl(nil), o.SourceControls...)
	}
	if o.SleepTimer != nil {
		st := *o.SleepTimer
		out.SleepTimer = &st
	}
	return out
}

// HasOutput reports whether outputID belongs to the zone.
func (z Zone) HasOutput(outputID string) bool {
	for _, o := range z.Outputs {
		if o.OutputID == outputID {
			return true
		}
	}
	return false
}
