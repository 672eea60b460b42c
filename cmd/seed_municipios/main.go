// seed_municipios genera el script SQL que puebla la tabla municipios a partir
// del CSV oficial del IBGE (RELATORIO_DTB_BRASIL_MUNICIPIO), que se distribuye
// en ISO-8859-1.
//
// Uso: go run ./cmd/seed_municipios [ruta/municipios.csv]
// Por defecto busca municipios.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/006_seed_municipios.sql
//
// Formato esperado del CSV (separado por ';'): UF;Nome_UF;...;Código Município
// Completo;Nome_Município — se toman la sigla de UF, el código de 7 dígitos y
// el nombre.
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Siglas por código numérico de UF del IBGE (dos primeros dígitos del código
// de municipio).
var ufSiglas = map[string]string{
	"11": "RO", "12": "AC", "13": "AM", "14": "RR", "15": "PA", "16": "AP",
	"17": "TO", "21": "MA", "22": "PI", "23": "CE", "24": "RN", "25": "PB",
	"26": "PE", "27": "AL", "28": "SE", "29": "BA", "31": "MG", "32": "ES",
	"33": "RJ", "35": "SP", "41": "PR", "42": "SC", "43": "RS", "50": "MS",
	"51": "MT", "52": "GO", "53": "DF",
}

type municipio struct {
	codigo string
	nome   string
	uf     string
}

func main() {
	csvPath := "municipios.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	var municipios []municipio
	for _, rec := range records {
		m := parseRecord(rec)
		if m == nil {
			continue
		}
		municipios = append(municipios, *m)
	}
	if len(municipios) == 0 {
		fmt.Fprintln(os.Stderr, "El CSV no contiene municipios reconocibles")
		os.Exit(1)
	}

	// Orden estable por código para diffs limpios
	sort.Slice(municipios, func(i, j int) bool {
		return municipios[i].codigo < municipios[j].codigo
	})

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "006_seed_municipios.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	out.WriteString("-- Municipios de Brasil (código IBGE de 7 dígitos)\n")
	out.WriteString("-- Generado desde el CSV de la DTB del IBGE\n\n")
	out.WriteString("INSERT INTO municipios (codigo, nome, uf) VALUES\n")
	for i, m := range municipios {
		sep := ","
		if i == len(municipios)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s')%s\n", m.codigo, escapeSQL(m.nome), m.uf, sep)
	}
	out.WriteString("ON CONFLICT (codigo) DO UPDATE SET nome = EXCLUDED.nome, uf = EXCLUDED.uf;\n")

	fmt.Printf("Generado %s: %d municipios\n", outPath, len(municipios))
}

// parseRecord busca en la fila el código de municipio de 7 dígitos y toma el
// campo siguiente como nombre. Las filas de cabecera y de otros niveles de la
// DTB no tienen ese código y se descartan.
func parseRecord(rec []string) *municipio {
	for i, field := range rec {
		field = strings.TrimSpace(field)
		if len(field) != 7 || !isDigits(field) {
			continue
		}
		uf, ok := ufSiglas[field[:2]]
		if !ok || i+1 >= len(rec) {
			return nil
		}
		nome := strings.TrimSpace(rec[i+1])
		if nome == "" {
			return nil
		}
		return &municipio{codigo: field, nome: nome, uf: uf}
	}
	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
