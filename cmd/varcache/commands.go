package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/varcache"
	"github.com/unkn0wn-root/varcache/codec"
)

func commands(a *app) []*cobra.Command {
	return []*cobra.Command{
		getCmd(a), setCmd(a, false), setCmd(a, true), delCmd(a), existsCmd(a), typeCmd(a),
		expireCmd(a), expireAtCmd(a), pexpireCmd(a), persistCmd(a), ttlCmd(a),
		incrCmd(a, "incr", 1), incrCmd(a, "decr", -1), incrByCmd(a, "incrby", 1), incrByCmd(a, "decrby", -1),
		hgetCmd(a), hsetCmd(a), hdelCmd(a), hexistsCmd(a), hlenCmd(a), hgetallCmd(a), hsetDictCmd(a),
		evictCmd(a),
	}
}

func getCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a value; arrays print as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := a.client.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: not found", args[0])
			}
			return printValue(cmd.OutOrStdout(), v)
		},
	}
}

func setCmd(a *app, permanent bool) *cobra.Command {
	var (
		ttl   int
		array bool
	)
	use, short := "set <key> <value>", "Store a value with an optional TTL"
	if permanent {
		use, short = "setp <key> <value>", "Store a value without expiry"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value any = args[1]
			if array {
				v, err := parseArray(args[1])
				if err != nil {
					return err
				}
				value = v
			}
			if permanent {
				return a.client.SetPermanent(cmd.Context(), args[0], value)
			}
			return a.client.Set(cmd.Context(), args[0], value, ttl)
		},
	}
	if !permanent {
		cmd.Flags().IntVar(&ttl, "ttl", 0, "seconds to expiry (0 = none)")
	}
	cmd.Flags().BoolVar(&array, "array", false, "value is a JSON array (1-D) or array of arrays (2-D)")
	return cmd
}

func delCmd(a *app) *cobra.Command {
	return boolCmd("del <key>", "Delete a key", 1, func(cmd *cobra.Command, args []string) (bool, error) {
		return a.client.Del(cmd.Context(), args[0])
	})
}

func existsCmd(a *app) *cobra.Command {
	return boolCmd("exists <key>", "Report whether a key exists", 1, func(cmd *cobra.Command, args []string) (bool, error) {
		return a.client.Exists(cmd.Context(), args[0])
	})
}

func typeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "type <key>",
		Short: "Print the store type of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.client.Type(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

func expireCmd(a *app) *cobra.Command {
	return boolCmd("expire <key> <seconds>", "Expire a key after a number of seconds", 2, func(cmd *cobra.Command, args []string) (bool, error) {
		secs, err := strconv.Atoi(args[1])
		if err != nil {
			return false, fmt.Errorf("seconds: %w", err)
		}
		return a.client.Expire(cmd.Context(), args[0], secs)
	})
}

func expireAtCmd(a *app) *cobra.Command {
	return boolCmd("expireat <key> <RFC3339|unix-seconds>", "Expire a key at an absolute time", 2, func(cmd *cobra.Command, args []string) (bool, error) {
		at, err := parseTime(args[1])
		if err != nil {
			return false, err
		}
		return a.client.ExpireAt(cmd.Context(), args[0], at)
	})
}

func pexpireCmd(a *app) *cobra.Command {
	return boolCmd("pexpire <key> <milliseconds>", "Expire a key after a number of milliseconds", 2, func(cmd *cobra.Command, args []string) (bool, error) {
		ms, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return false, fmt.Errorf("milliseconds: %w", err)
		}
		return a.client.SetExpiration(cmd.Context(), args[0], ms)
	})
}

func persistCmd(a *app) *cobra.Command {
	return boolCmd("persist <key>", "Remove the expiry of a key", 1, func(cmd *cobra.Command, args []string) (bool, error) {
		return a.client.Persist(cmd.Context(), args[0])
	})
}

func ttlCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ttl <key>",
		Short: "Print remaining seconds (-1 no expiry, -2 missing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			secs, _, err := a.client.TTL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), secs)
			return nil
		},
	}
}

func incrCmd(a *app, name string, sign int) *cobra.Command {
	return numberCmd(name+" <key>", "Step a counter by one", 1, func(cmd *cobra.Command, args []string) (float64, error) {
		if sign < 0 {
			return a.client.Decr(cmd.Context(), args[0])
		}
		return a.client.Incr(cmd.Context(), args[0])
	})
}

func incrByCmd(a *app, name string, sign int) *cobra.Command {
	return numberCmd(name+" <key> <amount>", "Step a counter by a float amount", 2, func(cmd *cobra.Command, args []string) (float64, error) {
		amt, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return 0, fmt.Errorf("amount: %w", err)
		}
		if sign < 0 {
			return a.client.DecrBy(cmd.Context(), args[0], amt)
		}
		return a.client.IncrBy(cmd.Context(), args[0], amt)
	})
}

func hgetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hget <key> <field>",
		Short: "Print a hash field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, ok, err := a.client.Hget(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s %s: not found", args[0], args[1])
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func hsetCmd(a *app) *cobra.Command {
	return boolCmd("hset <key> <field> <value>", "Set a hash field; prints whether it was created", 3, func(cmd *cobra.Command, args []string) (bool, error) {
		return a.client.Hset(cmd.Context(), args[0], args[1], args[2])
	})
}

func hdelCmd(a *app) *cobra.Command {
	return boolCmd("hdel <key> <field>", "Delete a hash field", 2, func(cmd *cobra.Command, args []string) (bool, error) {
		return a.client.Hdel(cmd.Context(), args[0], args[1])
	})
}

func hexistsCmd(a *app) *cobra.Command {
	return boolCmd("hexists <key> <field>", "Report whether a hash field exists", 2, func(cmd *cobra.Command, args []string) (bool, error) {
		return a.client.Hexists(cmd.Context(), args[0], args[1])
	})
}

func hlenCmd(a *app) *cobra.Command {
	return numberCmd("hlen <key>", "Print the number of hash fields", 1, func(cmd *cobra.Command, args []string) (float64, error) {
		n, err := a.client.Hlen(cmd.Context(), args[0])
		return float64(n), err
	})
}

func hgetallCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hgetall <key>",
		Short: "Print every hash field as field=value lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := a.client.Hgetall(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fields := make([]string, 0, len(all))
			for f := range all {
				fields = append(fields, f)
			}
			sort.Strings(fields)
			for _, f := range fields {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", f, all[f])
			}
			return nil
		},
	}
}

func hsetDictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hsetdict <key> <json-object>",
		Short: "Write a JSON object of scalar values into a hash",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dec := json.NewDecoder(bytes.NewReader([]byte(args[1])))
			dec.UseNumber()
			var m map[string]any
			if err := dec.Decode(&m); err != nil {
				return fmt.Errorf("dictionary: %w", err)
			}
			return a.client.HsetDict(cmd.Context(), args[0], m)
		},
	}
}

func evictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "evict <prefix>",
		Short: "Delete every key starting with prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.client.RemoveKeysWithPrefix(cmd.Context(), args[0])
			if err != nil {
				a.log.Error("evict failed", zap.String("prefix", args[0]), zap.Int64("deleted", n), zap.Error(err))
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func boolCmd(use, short string, nargs int, run func(*cobra.Command, []string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := run(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func numberCmd(use, short string, nargs int, run func(*cobra.Command, []string) (float64, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := run(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(n, 'g', -1, 64))
			return nil
		},
	}
}

// parseArray reads a JSON array; nested arrays make a matrix.
func parseArray(s string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("--array: %w", err)
	}
	if _, ok := v.([]any); !ok {
		return nil, fmt.Errorf("--array: want a JSON array, got %T", v)
	}
	return v, nil
}

func parseTime(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time: want RFC3339 or unix seconds: %w", err)
	}
	return t, nil
}

func printValue(w io.Writer, v varcache.Value) error {
	var out any
	switch v.Kind() {
	case codec.KindScalar:
		_, err := fmt.Fprintln(w, v.Text())
		return err
	case codec.KindVector:
		out = v.Items()
	default:
		out = v.Rows()
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
