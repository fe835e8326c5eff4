/*
Package sstview decodes sorted string table (SST) files written by a
log-structured storage engine and exposes their internal structure for
inspection. It only reads: tables are decoded once, in memory, into plain
values which can be handed to a renderer (see the report sub-package).

Data Structure Documentation

Table

A table contains a series of data blocks followed by a meta section, an
optional bloom filter section and a fixed-size trailer.

    Table layout:
    +---------+---------+---------+--------------+-------------+-----------------+
    | block 1 |   ...   | block n | meta section | bloom (opt) | trailer (24 B)  |
    +---------+---------+---------+--------------+-------------+-----------------+

    Trailer:
    +---------------------------+--------------------+----------------------+----------------------+
    | meta section offset (u32) | bloom offset (u32) | min tranc id (u64)   | max tranc id (u64)   |
    +---------------------------+--------------------+----------------------+----------------------+

An offset of zero means the section is absent.

Meta Section

    +-------------------+---------+-------+---------+------------------+
    | entry count (u32) | entry 1 |  ...  | entry n | trailing bytes   |
    +-------------------+---------+-------+---------+------------------+

    Meta entry:
    +---------------------+-------------------+-----------+------------------+----------+
    | block offset (u32)  | first key len u16 | first key | last key len u16 | last key |
    +---------------------+-------------------+-----------+------------------+----------+

Block

A block comprises a series of entries, followed by an offset table, the
number of entries and a 4-byte hash.

    Block layout:
    +---------+-------+---------+----------------------------+--------------------+------------+
    | entry 1 |  ...  | entry n | entry offsets (u16 x n)    | num elements (u16) | hash (u32) |
    +---------+-------+---------+----------------------------+--------------------+------------+

    Entry:
    +---------------+-----+-----------------+-------+---------------+
    | key len (u16) | key | value len (u16) | value | tranc id (u64)|
    +---------------+-----+-----------------+-------+---------------+

Bloom Filter

    +-------------------------+----------------------+-----------------+-------------------+-----------+
    | expected elements (u64) | false pos. rate(f64) | num bits (u64)  | num hashes (u64)  | bit array |
    +-------------------------+----------------------+-----------------+-------------------+-----------+

All integers are little-endian.
*/
package sstview
