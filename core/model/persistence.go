package model

import (
	"encoding/gob"
	"io"
	"os"
	"path/filepath"

	histerrors "github.com/YuminosukeSato/histgbm/pkg/errors"
)

// SaveModel はモデルをgob形式でファイルに保存する
//
// 親ディレクトリが存在しない場合は作成する。
//
// 使用例:
//
//	var ens histgbm.Ensemble
//	// ... 学習 ...
//	err := model.SaveModel(&ens, "models/model_LLAMA.bin")
func SaveModel(m any, filename string) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return histerrors.NewModelError("SaveModel", "create directory", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return histerrors.NewModelError("SaveModel", "create file", err)
	}

	if err := SaveModelToWriter(m, file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return histerrors.NewModelError("SaveModel", "close file", err)
	}
	return nil
}

// LoadModel はgob形式のファイルからモデルを読み込む
//
// m は読み込み先のポインタでなければならない。
//
// 使用例:
//
//	var ens histgbm.Ensemble
//	err := model.LoadModel(&ens, "models/model_LLAMA.bin")
func LoadModel(m any, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return histerrors.NewModelError("LoadModel", "open file", err)
	}
	defer file.Close()

	return LoadModelFromReader(m, file)
}

// SaveModelToWriter はモデルをio.Writerにgob形式で書き込む
func SaveModelToWriter(m any, w io.Writer) error {
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return histerrors.NewModelError("SaveModel", "encode", err)
	}
	return nil
}

// LoadModelFromReader はio.Readerからgob形式のモデルを読み込む
func LoadModelFromReader(m any, r io.Reader) error {
	if err := gob.NewDecoder(r).Decode(m); err != nil {
		return histerrors.NewModelError("LoadModel", "decode", err)
	}
	return nil
}
