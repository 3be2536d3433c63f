package main

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/parquet-go/parquet-go"
)

type Cell struct {
	Lon   float64 `parquet:"Lon"`
	Lat   float64 `parquet:"Lat"`
	Year  int32   `parquet:"Year"`
	Total float64 `parquet:"Total"`
}

func cells() []Cell {
	var out []Cell
	for year := int32(2000); year < 2003; year++ {
		for lat := 54.75; lat <= 57.25; lat += 0.5 {
			for lon := 10.25; lon <= 12.25; lon += 0.5 {
				total := 3 + math.Sin(lon)*math.Cos(lat) + float64(year-2000)*0.1
				out = append(out, Cell{Lon: lon, Lat: lat, Year: year, Total: math.Round(total*1000) / 1000})
			}
		}
	}
	return out
}

func main() {
	rows := cells()

	var text bytes.Buffer
	fmt.Fprintf(&text, "%7s %7s %5s %7s\n", "Lon", "Lat", "Year", "Total")
	for _, c := range rows {
		fmt.Fprintf(&text, "%7.2f %7.2f %5d %7.3f\n", c.Lon, c.Lat, c.Year, c.Total)
	}
	if err := os.WriteFile("cpool.out", text.Bytes(), 0o644); err != nil {
		log.Fatal(err)
	}

	gz, err := os.Create("cpool.out.gz")
	if err != nil {
		log.Fatal(err)
	}
	zw := gzip.NewWriter(gz)
	if _, err := zw.Write(text.Bytes()); err != nil {
		log.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		log.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		log.Fatal(err)
	}

	file, err := os.Create("cpool.parquet")
	if err != nil {
		log.Fatal(err)
	}
	writer := parquet.NewGenericWriter[Cell](file)
	if _, err := writer.Write(rows); err != nil {
		log.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		log.Fatal(err)
	}
	if err := file.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("Generated cpool.out, cpool.out.gz and cpool.parquet with %d records", len(rows))
}
