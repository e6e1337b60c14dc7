package holiday

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"planner/internal/application/engine"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Table - справочник праздников: дата YYYY-MM-DD -> название.
type Table map[string]string

// Default - встроенные праздники Кореи.
func Default() Table {
	return Table{
		"2024-01-01": "신정",
		"2024-02-09": "설날",
		"2024-02-10": "설날",
		"2024-02-11": "설날",
		"2024-03-01": "삼일절",
		"2024-05-05": "어린이날",
		"2024-06-06": "현충일",
		"2024-08-15": "광복절",
		"2024-09-16": "추석",
		"2024-09-17": "추석",
		"2024-09-18": "추석",
		"2024-10-03": "개천절",
		"2024-10-09": "한글날",
		"2024-12-25": "크리스마스",

		"2025-01-01": "신정",
		"2025-01-28": "설날",
		"2025-01-29": "설날",
		"2025-01-30": "설날",
		"2025-03-01": "삼일절",
		"2025-05-05": "어린이날",
		"2025-06-06": "현충일",
		"2025-08-15": "광복절",
		"2025-10-03": "개천절",
		"2025-10-05": "추석",
		"2025-10-06": "추석",
		"2025-10-07": "추석",
		"2025-10-09": "한글날",
		"2025-12-25": "크리스마스",
	}
}

// Month возвращает праздники месяца, в котором лежит t. Пустой месяц - пустая карта, не nil.
func (t Table) Month(month time.Time) map[string]string {
	prefix := fmt.Sprintf("%04d-%02d-", month.Year(), int(month.Month()))
	out := make(map[string]string)
	for date, name := range t {
		if strings.HasPrefix(date, prefix) {
			out[date] = name
		}
	}
	return out
}

// Merge возвращает новую таблицу; при совпадении дат побеждают более поздние таблицы.
func Merge(tables ...Table) Table {
	out := make(Table)
	for _, tbl := range tables {
		for date, name := range tbl {
			out[date] = name
		}
	}
	return out
}

// Dates - отсортированные даты таблицы.
func (t Table) Dates() []string {
	dates := make([]string, 0, len(t))
	for d := range t {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func (t Table) validate() error {
	for date, name := range t {
		if _, ok := engine.ParseDate(date); !ok {
			return fmt.Errorf("holiday %q: invalid date %q", name, date)
		}
	}
	return nil
}

type yamlFile struct {
	Holidays map[string]string `yaml:"holidays"`
}

// LoadYAML читает дополнительный файл праздников. Отсутствующий файл - пустая таблица.
//
//	holidays:
//	  "2024-04-10": 국회의원 선거
func LoadYAML(path string) (Table, error) {
	if path == "" {
		return Table{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("read holidays file: %w", err)
	}

	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse holidays file: %w", err)
	}
	tbl := Table(f.Holidays)
	if tbl == nil {
		tbl = Table{}
	}
	if err := tbl.validate(); err != nil {
		return nil, err
	}
	return tbl, nil
}
