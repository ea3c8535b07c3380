package gen

// Prelude is the header of every generated Rust module. It imports the
// combinators the emitted parsers refer to unqualified.
const Prelude = `// Code generated by nomgen. DO NOT EDIT.

#![allow(unused_imports, unused_variables, dead_code)]

use nom::bits::bits;
use nom::bits::complete::take as take_bits;
use nom::bytes::complete::take;
use nom::combinator::{complete, cond, eof, map, map_res, peek, success, verify};
use nom::multi::many0;
use nom::number::complete::{
    be_f32, be_f64, be_i128, be_i16, be_i24, be_i32, be_i64, be_u128, be_u16, be_u24, be_u32,
    be_u64, i8, le_f32, le_f64, le_i128, le_i16, le_i24, le_i32, le_i64, le_u128, le_u16, le_u24,
    le_u32, le_u64, u8,
};
use nom::sequence::tuple;
use nom::IResult;
use std::convert::TryFrom;
use std::net::{Ipv4Addr, Ipv6Addr};
`
