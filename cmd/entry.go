package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/cedolino/internal/model"
	"github.com/Tiliavir/cedolino/internal/storage"
	"github.com/Tiliavir/cedolino/internal/timecalc"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Show, edit or delete the entry of a day",
}

var entryShowCmd = &cobra.Command{
	Use:   "show <YYYY-MM-DD>",
	Short: "Print the stored entry as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryShow,
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <YYYY-MM-DD>",
	Short: "Delete the entry of a day",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryDelete,
}

var entrySetCmd = &cobra.Command{
	Use:   "set <YYYY-MM-DD>",
	Short: "Create or change the entry of a day",
	Long: `Create or change the entry of a day. Only the flags given are changed;
list flags replace the stored list.

  --work 08:00-12:00 --work 13:00-17:00
  --travel outbound=07:00-08:00 --travel return=17:00-18:00
  --standby --intervention outbound=21:30-22:00,22:00-23:30
  --fixed vacation [--fixed-amount 109.19]     (--fixed none clears it)
  --lunch voucher --dinner cash=4.50,voucher   (override=12 replaces both)
  --allowance 100                              (percent; --allowance none clears it)`,
	Args: cobra.ExactArgs(1),
	RunE: runEntrySet,
}

var entryFlags struct {
	work          []string
	travel        []string
	interventions []string
	standby       bool
	fixed         string
	fixedAmount   string
	lunch         string
	dinner        string
	allowance     string
	note          string
}

func init() {
	f := entrySetCmd.Flags()
	f.StringArrayVar(&entryFlags.work, "work", nil, "Work interval HH:MM-HH:MM (repeatable)")
	f.StringArrayVar(&entryFlags.travel, "travel", nil, "Travel interval [outbound|return|internal=]HH:MM-HH:MM (repeatable)")
	f.StringArrayVar(&entryFlags.interventions, "intervention", nil, "Standby intervention: comma-separated work and KIND=travel intervals (repeatable)")
	f.BoolVar(&entryFlags.standby, "standby", false, "Mark the day as a standby day")
	f.StringVar(&entryFlags.fixed, "fixed", "", "Fixed day type: "+dayTypeNames()+", or none")
	f.StringVar(&entryFlags.fixedAmount, "fixed-amount", "", "Fixed day earnings (default: the daily rate)")
	f.StringVar(&entryFlags.lunch, "lunch", "", "Lunch: voucher, cash=AMOUNT, override=AMOUNT or none")
	f.StringVar(&entryFlags.dinner, "dinner", "", "Dinner: voucher, cash=AMOUNT, override=AMOUNT or none")
	f.StringVar(&entryFlags.allowance, "allowance", "", "Travel allowance percent (0-100) or none")
	f.StringVar(&entryFlags.note, "note", "", "Note for the day")

	entryCmd.AddCommand(entryShowCmd)
	entryCmd.AddCommand(entrySetCmd)
	entryCmd.AddCommand(entryDeleteCmd)
}

func dayTypeNames() string {
	names := make([]string, len(model.DayTypes))
	for i, t := range model.DayTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

func runEntryShow(cmd *cobra.Command, args []string) error {
	day, err := timecalc.ParseDate(args[0])
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	e, err := a.entries.Get(cmd.Context(), day)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no entry for %s", args[0])
	}
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	day, err := timecalc.ParseDate(args[0])
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.entries.Delete(cmd.Context(), day); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no entry for %s", args[0])
		}
		return err
	}
	a.log.Info("entry deleted", zap.String("date", args[0]))
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}

func runEntrySet(cmd *cobra.Command, args []string) error {
	day, err := timecalc.ParseDate(args[0])
	if err != nil {
		return err
	}
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	s, h, err := a.rules(day.Year())
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	e, err := storage.Update(cmd.Context(), a.entries, day, func(e *model.WorkEntry) error {
		if flags.Changed("work") {
			ivs, err := parseIntervals(entryFlags.work)
			if err != nil {
				return err
			}
			e.Work = ivs
		}
		if flags.Changed("travel") {
			ts := make([]model.TravelInterval, 0, len(entryFlags.travel))
			for _, v := range entryFlags.travel {
				t, err := parseTravel(v)
				if err != nil {
					return err
				}
				ts = append(ts, t)
			}
			e.Travel = ts
		}
		if flags.Changed("standby") {
			e.Standby = entryFlags.standby
		}
		if flags.Changed("intervention") {
			ivs := make([]model.Intervention, 0, len(entryFlags.interventions))
			for _, v := range entryFlags.interventions {
				iv, err := parseIntervention(v)
				if err != nil {
					return err
				}
				ivs = append(ivs, iv)
			}
			e.Interventions = ivs
			if len(ivs) > 0 {
				e.Standby = true
			}
		}
		if flags.Changed("fixed") {
			fixed, err := parseFixed(entryFlags.fixed, entryFlags.fixedAmount, s.Contract.DailyRate)
			if err != nil {
				return err
			}
			e.Fixed = fixed
		}
		if flags.Changed("lunch") {
			if err := parseMeal(entryFlags.lunch, &e.Meals.Lunch); err != nil {
				return fmt.Errorf("--lunch: %w", err)
			}
		}
		if flags.Changed("dinner") {
			if err := parseMeal(entryFlags.dinner, &e.Meals.Dinner); err != nil {
				return fmt.Errorf("--dinner: %w", err)
			}
		}
		if flags.Changed("allowance") {
			on, pct, err := parseAllowance(entryFlags.allowance)
			if err != nil {
				return err
			}
			e.TravelAllowance, e.TravelAllowancePercent = on, pct
		}
		if flags.Changed("note") {
			note := entryFlags.note
			e.Note = &note
		}
		return nil
	})
	if err != nil {
		return err
	}
	a.log.Info("entry saved", zap.String("date", e.Date))

	b, err := a.calc.Daily(e, s, h)
	if err != nil {
		return err
	}
	printBreakdown(os.Stdout, b)
	return nil
}

// parseInterval parses "HH:MM-HH:MM". An end before the start crosses midnight.
func parseInterval(s string) (model.Interval, error) {
	start, end, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return model.Interval{}, fmt.Errorf("invalid interval %q (want HH:MM-HH:MM)", s)
	}
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if _, ok := timecalc.ParseClock(start); !ok {
		return model.Interval{}, fmt.Errorf("invalid start time in %q", s)
	}
	if _, ok := timecalc.ParseClock(end); !ok {
		return model.Interval{}, fmt.Errorf("invalid end time in %q", s)
	}
	return model.Interval{Start: start, End: end}, nil
}

func parseIntervals(values []string) ([]model.Interval, error) {
	out := make([]model.Interval, 0, len(values))
	for _, v := range values {
		iv, err := parseInterval(v)
		if err != nil {
			return nil, err
		}
		out = append(out, iv)
	}
	return out, nil
}

// parseTravel parses "[KIND=]HH:MM-HH:MM"; the kind defaults to outbound.
func parseTravel(s string) (model.TravelInterval, error) {
	kind := model.TravelOutbound
	if k, rest, ok := strings.Cut(s, "="); ok {
		parsed, err := model.ParseTravelKind(strings.TrimSpace(k))
		if err != nil {
			return model.TravelInterval{}, err
		}
		kind, s = parsed, rest
	}
	iv, err := parseInterval(s)
	if err != nil {
		return model.TravelInterval{}, err
	}
	return model.TravelInterval{Interval: iv, Kind: kind}, nil
}

// parseIntervention parses comma-separated intervals: plain ones are work,
// KIND=… ones are travel.
func parseIntervention(s string) (model.Intervention, error) {
	iv := model.Intervention{ID: uuid.NewString(), Work: []model.Interval{}, Travel: []model.TravelInterval{}}
	for _, part := range strings.Split(s, ",") {
		if strings.Contains(part, "=") {
			t, err := parseTravel(part)
			if err != nil {
				return model.Intervention{}, err
			}
			iv.Travel = append(iv.Travel, t)
			continue
		}
		w, err := parseInterval(part)
		if err != nil {
			return model.Intervention{}, err
		}
		iv.Work = append(iv.Work, w)
	}
	if len(iv.Work) == 0 && len(iv.Travel) == 0 {
		return model.Intervention{}, fmt.Errorf("empty intervention %q", s)
	}
	return iv, nil
}

// parseFixed returns the fixed day for typ, or nil for "none".
func parseFixed(typ, amount string, dailyRate decimal.Decimal) (*model.FixedDay, error) {
	if typ == "none" || typ == "" {
		return nil, nil
	}
	t, err := model.ParseDayType(typ)
	if err != nil {
		return nil, err
	}
	earnings := dailyRate
	if amount != "" {
		if earnings, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid --fixed-amount %q: %w", amount, err)
		}
		if earnings.IsNegative() {
			return nil, fmt.Errorf("invalid --fixed-amount %q: must not be negative", amount)
		}
	}
	return &model.FixedDay{Type: t, Earnings: earnings}, nil
}

// parseMeal applies "voucher", "cash=X", "override=X" (comma-separated) or
// "none" to m.
func parseMeal(s string, m *model.Meal) error {
	next := model.Meal{}
	if s == "none" {
		*m = next
		return nil
	}
	for _, part := range strings.Split(s, ",") {
		key, val, hasVal := strings.Cut(strings.TrimSpace(part), "=")
		switch {
		case key == "voucher" && !hasVal:
			next.Voucher = true
		case (key == "cash" || key == "override") && hasVal:
			d, err := decimal.NewFromString(val)
			if err != nil || d.IsNegative() {
				return fmt.Errorf("invalid amount %q", val)
			}
			if key == "cash" {
				next.Cash = d
			} else {
				next.CashOverride = d
			}
		default:
			return fmt.Errorf("unknown meal option %q", part)
		}
	}
	*m = next
	return nil
}

// parseAllowance parses a 0–100 percentage or "none". A nil percent with
// on set means the full allowance.
func parseAllowance(s string) (bool, *decimal.Decimal, error) {
	if s == "none" {
		return false, nil, nil
	}
	pct, err := decimal.NewFromString(s)
	if err != nil || pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return false, nil, fmt.Errorf("invalid --allowance %q (want 0-100 or none)", s)
	}
	if pct.Equal(decimal.NewFromInt(100)) {
		return true, nil, nil
	}
	return true, &pct, nil
}
