package engine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/khanglvm/autopilot/internal/storage"
)

// BuildPattern computes the replacement UserPattern from a chronological
// snapshot. The computation is deterministic: an unchanged snapshot always
// produces an identical pattern.
func BuildPattern(userID string, snapshot []storage.Interaction, now time.Time) storage.UserPattern {
	return storage.UserPattern{
		UserID:          userID,
		MostUsedApps:    mineAppUsage(snapshot),
		PreferredTimes:  mineTimeHistogram(snapshot),
		CommonSequences: mineSequences(snapshot),
		ErrorPatterns:   mineDataHistogram(snapshot, storage.InteractionError, "error"),
		SuccessPatterns: mineDataHistogram(snapshot, storage.InteractionSuccess, "action"),
		WindowPrefs:     mineWindowPrefs(snapshot),
		UpdatedAt:       now,
	}
}

// mineAppUsage pairs each app-open with its next app-close for the same app
// and ranks apps by open count, keeping the top 10.
func mineAppUsage(snapshot []storage.Interaction) []storage.AppUsage {
	type usage struct {
		count    int
		totalDur float64
		paired   int
		lastOpen *time.Time
	}

	byApp := map[string]*usage{}
	for _, in := range snapshot {
		switch in.Type {
		case storage.InteractionAppOpen:
			if in.AppID == "" {
				continue
			}
			u := byApp[in.AppID]
			if u == nil {
				u = &usage{}
				byApp[in.AppID] = u
			}
			u.count++
			ts := in.Timestamp
			u.lastOpen = &ts

		case storage.InteractionAppClose:
			u := byApp[in.AppID]
			if u == nil || u.lastOpen == nil {
				continue
			}
			u.totalDur += in.Timestamp.Sub(*u.lastOpen).Seconds()
			u.paired++
			u.lastOpen = nil
		}
	}

	apps := make([]storage.AppUsage, 0, len(byApp))
	for appID, u := range byApp {
		avg := 0.0
		if u.paired > 0 {
			avg = u.totalDur / float64(u.paired)
		}
		apps = append(apps, storage.AppUsage{AppID: appID, Count: u.count, AvgDuration: avg})
	}

	sort.Slice(apps, func(i, j int) bool {
		if apps[i].Count != apps[j].Count {
			return apps[i].Count > apps[j].Count
		}
		return apps[i].AppID < apps[j].AppID
	})

	if len(apps) > maxTopApps {
		apps = apps[:maxTopApps]
	}
	return apps
}

// mineTimeHistogram counts interactions per time-of-day bucket.
func mineTimeHistogram(snapshot []storage.Interaction) map[string]int {
	hist := map[string]int{}
	for _, in := range snapshot {
		if in.Context.TimeOfDay != "" {
			hist[in.Context.TimeOfDay]++
		}
	}
	return hist
}

// EventToken names an interaction for sequence mining and prediction.
func EventToken(in storage.Interaction) string {
	if in.AppID == "" {
		return string(in.Type)
	}
	return string(in.Type) + ":" + in.AppID
}

// mineSequences slides a 3-event window over chronological order, counts
// each token run, and keeps runs seen more than twice, top 10 by frequency.
func mineSequences(snapshot []storage.Interaction) []storage.SequencePattern {
	counts := map[string]int{}
	for i := 0; i+sequenceLength <= len(snapshot); i++ {
		tokens := make([]string, sequenceLength)
		for j := 0; j < sequenceLength; j++ {
			tokens[j] = EventToken(snapshot[i+j])
		}
		counts[strings.Join(tokens, "|")]++
	}

	sequences := []storage.SequencePattern{}
	for key, freq := range counts {
		if freq <= minSequenceFrequency {
			continue
		}
		sequences = append(sequences, storage.SequencePattern{
			Sequence:  strings.Split(key, "|"),
			Frequency: freq,
		})
	}

	sort.Slice(sequences, func(i, j int) bool {
		if sequences[i].Frequency != sequences[j].Frequency {
			return sequences[i].Frequency > sequences[j].Frequency
		}
		return strings.Join(sequences[i].Sequence, "|") < strings.Join(sequences[j].Sequence, "|")
	})

	if len(sequences) > maxSequences {
		sequences = sequences[:maxSequences]
	}
	return sequences
}

// mineDataHistogram groups interactions of one type by a data field value.
func mineDataHistogram(snapshot []storage.Interaction, typ storage.InteractionType, field string) map[string]int {
	hist := map[string]int{}
	for _, in := range snapshot {
		if in.Type != typ {
			continue
		}
		if v := in.Data[field]; v != "" {
			hist[v]++
		}
	}
	return hist
}

// mineWindowPrefs keeps the latest known geometry per app. Later events
// overwrite earlier ones; moves update position, resizes update size.
func mineWindowPrefs(snapshot []storage.Interaction) map[string]storage.WindowPref {
	prefs := map[string]storage.WindowPref{}
	for _, in := range snapshot {
		if in.AppID == "" {
			continue
		}
		switch in.Type {
		case storage.InteractionWindowMove:
			p := prefs[in.AppID]
			p.X = atoiOr(in.Data["x"], p.X)
			p.Y = atoiOr(in.Data["y"], p.Y)
			prefs[in.AppID] = p

		case storage.InteractionWindowResize:
			p := prefs[in.AppID]
			p.Width = atoiOr(in.Data["width"], p.Width)
			p.Height = atoiOr(in.Data["height"], p.Height)
			prefs[in.AppID] = p
		}
	}
	return prefs
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
